package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agoraforum/agora/internal/auth"
	"github.com/agoraforum/agora/internal/forum"
)

// moderate returns a handler applying a single approve or reject. Role
// checks happen in the moderation service.
func (r *Router) moderate(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireLogin(c)
		if !ok {
			return
		}
		id, ok := postIDParam(c)
		if !ok {
			return
		}

		var err error
		msg := "post approved"
		switch action {
		case forum.ActionApprove:
			err = r.svc.Moderation.Approve(c.Request.Context(), user, id)
		case forum.ActionReject:
			err = r.svc.Moderation.Reject(c.Request.Context(), user, id)
			msg = "post rejected"
		}
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, msg, nil)
	}
}

type bulkRequest struct {
	IDs    []int64 `json:"ids" binding:"required"`
	Action string  `json:"action" binding:"required"`
}

func (r *Router) bulkModerate(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Action != forum.ActionApprove && req.Action != forum.ActionReject {
		respondError(c, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	applied, err := r.svc.Moderation.Bulk(c.Request.Context(), user, req.IDs, req.Action)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "bulk action applied", gin.H{
		"applied":   applied,
		"requested": len(req.IDs),
	})
}

func (r *Router) pendingQueue(c *gin.Context) {
	user := auth.CurrentUser(c)
	posts, err := r.svc.Moderation.PendingQueue(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"posts": posts})
}
