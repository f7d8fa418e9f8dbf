package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/auth"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (r *Router) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := r.svc.Users.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := auth.SignIn(c, user.Username); err != nil {
		r.logger.Error("session save failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	respond(c, http.StatusCreated, "account created", gin.H{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *Router) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := r.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := auth.SignIn(c, user.Username); err != nil {
		r.logger.Error("session save failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	respond(c, http.StatusOK, "logged in", gin.H{
		"username": user.Username,
		"role":     user.Role,
	})
}

func (r *Router) logout(c *gin.Context) {
	if err := auth.SignOut(c); err != nil {
		r.logger.Error("session clear failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	respond(c, http.StatusOK, "logged out", nil)
}
