package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/lifecycle"
	"github.com/goodjobguy1234/LendItApi/models"
)

type BorrowReader interface {
	GetBorrow(ctx context.Context, id string) (*models.Borrow, error)
	ListBorrowsByBorrower(ctx context.Context, borrowerID string) ([]models.Borrow, error)
	ListBorrowsByLender(ctx context.Context, lenderID string) ([]models.Borrow, error)
	UserExists(ctx context.Context, studentID string) (bool, error)
}

type BorrowController struct {
	engine Lifecycle
	reader BorrowReader
}

func NewBorrowController(engine Lifecycle, reader BorrowReader) *BorrowController {
	return &BorrowController{engine: engine, reader: reader}
}

func (bc *BorrowController) listFor(c *gin.Context, list func(context.Context, string) ([]models.Borrow, error), message string) {
	userID := c.Query("userId")
	if userID == "" {
		fail(c, apperr.Invalid("userId is required"))
		return
	}
	ok, err := bc.reader.UserExists(c.Request.Context(), userID)
	if err != nil {
		fail(c, apperr.Internal("look up user", err))
		return
	}
	if !ok {
		fail(c, apperr.NotFound("this user does not exist"))
		return
	}
	bs, err := list(c.Request.Context(), userID)
	if err != nil {
		fail(c, apperr.Internal("list borrows", err))
		return
	}
	success(c, http.StatusOK, message, bs)
}

// GET /api/borrows/borrower?userId=
func (bc *BorrowController) ListAsBorrower(c *gin.Context) {
	bc.listFor(c, bc.reader.ListBorrowsByBorrower, "retrieve borrows as borrower success")
}

// GET /api/borrows/lender?userId=
func (bc *BorrowController) ListAsLender(c *gin.Context) {
	bc.listFor(c, bc.reader.ListBorrowsByLender, "retrieve borrows as lender success")
}

// GET /api/borrows/:id
func (bc *BorrowController) GetBorrow(c *gin.Context) {
	b, err := bc.reader.GetBorrow(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "retrieve borrow detail success", b)
}

type createBorrowReq struct {
	ItemID         string `json:"itemID" binding:"required"`
	BorrowerID     string `json:"borrowerID" binding:"required"`
	LenderID       string `json:"lenderID" binding:"required"`
	BorrowDuration int    `json:"borrowDuration" binding:"required,min=1"`
}

// POST /api/borrows
func (bc *BorrowController) CreateBorrow(c *gin.Context) {
	var in createBorrowReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	b, err := bc.engine.CreateBorrow(c.Request.Context(), lifecycle.CreateBorrowInput{
		ItemID:         in.ItemID,
		BorrowerID:     in.BorrowerID,
		LenderID:       in.LenderID,
		BorrowDuration: in.BorrowDuration,
		CallerID:       callerID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusCreated, "request borrow success", b)
}

// PUT /api/borrows/:id/accept — lender approves the request.
func (bc *BorrowController) AcceptBorrow(c *gin.Context) {
	b, err := bc.engine.AcceptBorrow(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "accept borrow success", b)
}

// DELETE /api/borrows/:id — lender declines/cancels; the item is released.
func (bc *BorrowController) DeleteBorrow(c *gin.Context) {
	if err := bc.engine.DeleteBorrow(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "borrow deleted, item released", nil)
}
