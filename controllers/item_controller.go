package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

// ItemStore is the slice of the repo the item endpoints use.
type ItemStore interface {
	CreateItem(ctx context.Context, it *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, ownerID string) ([]models.Item, error)
	UpdateItemFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Item, error)
	DeleteItem(ctx context.Context, id string) error
	UserExists(ctx context.Context, studentID string) (bool, error)
}

type ItemController struct{ store ItemStore }

func NewItemController(store ItemStore) *ItemController { return &ItemController{store: store} }

type createItemReq struct {
	Name        string `json:"name" binding:"required"`
	PricePerDay int    `json:"pricePerDay" binding:"required,min=50"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageURL"`
}

// POST /api/items — the caller becomes the owner.
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in createItemReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		PricePerDay: in.PricePerDay,
		OwnerID:     callerID(c),
		Location:    in.Location,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Available:   true,
	}
	if err := ic.store.CreateItem(c.Request.Context(), it); err != nil {
		fail(c, apperr.Internal("create item", err))
		return
	}
	success(c, http.StatusCreated, "create item success", it)
}

// GET /api/items?userId= — all available items, or one owner's available items.
func (ic *ItemController) ListItems(c *gin.Context) {
	ownerID := c.Query("userId")
	if ownerID != "" {
		ok, err := ic.store.UserExists(c.Request.Context(), ownerID)
		if err != nil {
			fail(c, apperr.Internal("look up user", err))
			return
		}
		if !ok {
			fail(c, apperr.NotFound("this user does not exist"))
			return
		}
	}
	items, err := ic.store.ListItems(c.Request.Context(), ownerID)
	if err != nil {
		fail(c, apperr.Internal("list items", err))
		return
	}
	open := lo.Filter(items, func(it models.Item, _ int) bool { return it.Available })
	success(c, http.StatusOK, "retrieve all items success", open)
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "retrieve item detail success", it)
}

type updateItemReq struct {
	Name        *string `json:"name"`
	PricePerDay *int    `json:"pricePerDay"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageURL"`
}

// PUT /api/items/:id — owner only, and never while the item is checked out.
// The available flag is not updatable here under any circumstances.
func (ic *ItemController) UpdateItem(c *gin.Context) {
	id := c.Param("id")
	it, err := ic.store.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if it.OwnerID != callerID(c) {
		fail(c, apperr.Unauthorized("only the owner may update this item"))
		return
	}
	if !it.Available {
		fail(c, apperr.Conflict("item is checked out, wait until it is returned"))
		return
	}

	var in updateItemReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.PricePerDay != nil {
		if *in.PricePerDay < models.MinPricePerDay {
			fail(c, apperr.Invalid("minimum price per day is 50"))
			return
		}
		fields["price_per_day"] = *in.PricePerDay
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if len(fields) == 0 {
		fail(c, apperr.Invalid("nothing to update"))
		return
	}

	updated, err := ic.store.UpdateItemFields(c.Request.Context(), id, fields)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "update item success", updated)
}

// DELETE /api/items/:id — owner only, not while checked out.
func (ic *ItemController) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	it, err := ic.store.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if it.OwnerID != callerID(c) {
		fail(c, apperr.Unauthorized("only the owner may delete this item"))
		return
	}
	if !it.Available {
		fail(c, apperr.Conflict("item is checked out, wait until it is returned"))
		return
	}
	if err := ic.store.DeleteItem(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "deleted success", nil)
}
