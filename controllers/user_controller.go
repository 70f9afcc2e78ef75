package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/db"
)

type UserController struct{ repo *db.Repo }

func GetUserController(repo *db.Repo) *UserController { return &UserController{repo: repo} }

// GET /api/users
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.repo.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, apperr.Internal("list users", err))
		return
	}
	success(c, http.StatusOK, "retrieve all users success", users)
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.repo.FindUserByStudentID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, http.StatusOK, "retrieve user success", u)
}
