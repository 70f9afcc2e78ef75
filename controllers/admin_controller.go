package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminController struct{ engine Lifecycle }

func NewAdminController(engine Lifecycle) *AdminController { return &AdminController{engine: engine} }

// POST /api/admin/reconcile — release items stuck unavailable with no borrow.
// Repair path for a crash between the availability flip and the borrow write.
func (ac *AdminController) Reconcile(c *gin.Context) {
	repaired, err := ac.engine.Reconcile(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "reconcile complete", gin.H{"repairedItemIDs": repaired})
}
