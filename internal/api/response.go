package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/forum"
	"github.com/agoraforum/agora/pkg/logging"
)

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Status: "success", Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Status: "error", Message: message})
}

// writeError maps a service error onto an HTTP status and the error
// envelope. Unrecognized errors are logged and reported as 500 without
// leaking their text.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, forum.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, forum.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, forum.ErrDuplicateVote),
		errors.Is(err, forum.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, forum.ErrInvalidParent):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logging.WithComponent("api").Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
