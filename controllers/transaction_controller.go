package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/lifecycle"
	"github.com/goodjobguy1234/LendItApi/models"
)

type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, studentID string) ([]models.Transaction, error)
	UserExists(ctx context.Context, studentID string) (bool, error)
}

type TransactionController struct {
	engine Lifecycle
	reader TransactionReader
}

func NewTransactionController(engine Lifecycle, reader TransactionReader) *TransactionController {
	return &TransactionController{engine: engine, reader: reader}
}

type createTransactionReq struct {
	BorrowID   string `json:"borrowID" binding:"required"`
	TotalPrice int    `json:"totalPrice" binding:"required,min=50"`
}

// POST /api/transactions
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	var in createTransactionReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	t, err := tc.engine.CreateTransaction(c.Request.Context(), lifecycle.CreateTransactionInput{
		BorrowID:   in.BorrowID,
		TotalPrice: in.TotalPrice,
		CallerID:   callerID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusCreated, "create transaction successful", t)
}

// GET /api/transactions/user/:userId — settlements where the user was lender
// or borrower.
func (tc *TransactionController) ListByUser(c *gin.Context) {
	userID := c.Param("userId")
	ok, err := tc.reader.UserExists(c.Request.Context(), userID)
	if err != nil {
		fail(c, apperr.Internal("look up user", err))
		return
	}
	if !ok {
		fail(c, apperr.NotFound("this user does not exist"))
		return
	}
	ts, err := tc.reader.ListTransactionsByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, apperr.Internal("list transactions", err))
		return
	}
	success(c, http.StatusOK, "retrieve all transactions success", ts)
}

// GET /api/transactions/:id
func (tc *TransactionController) GetTransaction(c *gin.Context) {
	t, err := tc.reader.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "retrieve transaction detail success", t)
}

// PUT /api/transactions/:id/return — borrower confirms the item came back.
func (tc *TransactionController) ReturnTransaction(c *gin.Context) {
	t, err := tc.engine.CompleteTransaction(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "return item success", t)
}
