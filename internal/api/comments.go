package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Content     string   `json:"content" binding:"required"`
	Attachments []string `json:"attachments"`
	ParentID    *int64   `json:"parent_id"`
}

func (r *Router) addComment(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	urls := r.svc.Uploads.References(req.Attachments)
	comment, err := r.svc.Comments.Add(c.Request.Context(), postID, user.Username, req.Content, urls, req.ParentID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "comment added", gin.H{"id": comment.ID})
}
