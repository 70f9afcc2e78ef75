package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/auth"
	"github.com/goodjobguy1234/LendItApi/db"
	"github.com/goodjobguy1234/LendItApi/models"
	"github.com/goodjobguy1234/LendItApi/session"
)

type AuthController struct {
	repo     *db.Repo
	sessions *session.AppSessionStore
	tokens   *auth.TokenIssuer
}

func GetAuthController(repo *db.Repo, sessions *session.AppSessionStore, tokens *auth.TokenIssuer) *AuthController {
	return &AuthController{repo: repo, sessions: sessions, tokens: tokens}
}

type registerReq struct {
	ID           string `json:"id" binding:"required,len=7"`
	Firstname    string `json:"firstname" binding:"required"`
	Lastname     string `json:"lastname" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	PhoneNumber  string `json:"phoneNumber" binding:"required"`
	DormLocation string `json:"dormLocation" binding:"required"`
	ImageURL     string `json:"imageURL"`
	Password     string `json:"password" binding:"required,min=6"`
}

// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	exists, err := ac.repo.UserExists(c.Request.Context(), in.ID)
	if err != nil {
		fail(c, apperr.Internal("look up user", err))
		return
	}
	if exists {
		fail(c, apperr.Conflict("this id is already registered"))
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		fail(c, apperr.Internal("hash password", err))
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		StudentID:    in.ID,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		DormLocation: in.DormLocation,
		ImageURL:     in.ImageURL,
		PasswordHash: hash,
	}
	if err := ac.repo.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, apperr.Internal("create user", err))
		return
	}
	success(c, http.StatusCreated, "register new user success", u)
}

type loginReq struct {
	ID       string `json:"id" binding:"required,len=7"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, apperr.Invalid(err.Error()))
		return
	}
	u, err := ac.repo.FindUserByStudentID(c.Request.Context(), in.ID)
	if err != nil {
		// Same message for unknown id and wrong password.
		fail(c, apperr.Invalid("id or password is wrong"))
		return
	}
	if err := auth.VerifyPassword(u.PasswordHash, in.Password); err != nil {
		fail(c, apperr.Invalid("id or password is wrong"))
		return
	}
	token, jti, err := ac.tokens.Issue(u.StudentID)
	if err != nil {
		fail(c, apperr.Internal("issue token", err))
		return
	}
	if err := ac.sessions.Create(c.Request.Context(), jti, u.StudentID); err != nil {
		fail(c, apperr.Internal("create session", err))
		return
	}
	success(c, http.StatusOK, "user login success", gin.H{
		"auth-token": token,
		"id":         u.StudentID,
	})
}

// POST /auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if v, ok := c.Get("sessionID"); ok {
		if sid, _ := v.(string); sid != "" {
			_ = ac.sessions.Delete(c.Request.Context(), sid)
		}
	}
	success(c, http.StatusOK, "logout success", nil)
}
