package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agoraforum/agora/internal/htmlutil"
	"github.com/agoraforum/agora/internal/models"
)

// postIDParam parses the :id path segment.
func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return 0, false
	}
	return id, true
}

type postRequest struct {
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Attachments []string `json:"attachments"`
}

func (r *Router) createPost(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	urls := r.svc.Uploads.References(req.Attachments)
	post, err := r.svc.Posts.Create(c.Request.Context(), user.Username, req.Title, req.Content, urls)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "post created", gin.H{
		"id":     post.ID,
		"status": post.Status,
	})
}

func (r *Router) homeFeed(c *gin.Context) {
	posts, err := r.svc.Posts.HomeFeed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"posts": posts})
}

func (r *Router) viewTopic(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := r.svc.Posts.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	thread, err := r.svc.Comments.Thread(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	contribution, err := r.svc.Contrib.Total(ctx, post.Author)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"post":                post,
		"content_html":        htmlutil.Linkify(post.Content),
		"comments":            thread,
		"author_contribution": contribution,
	})
}

func (r *Router) editPost(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	urls := r.svc.Uploads.References(req.Attachments)
	if err := r.svc.Posts.Edit(c.Request.Context(), user, id, req.Title, req.Content, urls); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "post updated", nil)
}

func (r *Router) deletePost(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	if err := r.svc.Posts.Delete(c.Request.Context(), user, id); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "post deleted", nil)
}

// vote returns a handler casting a vote in the given direction.
func (r *Router) vote(direction models.VoteDirection) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireLogin(c)
		if !ok {
			return
		}
		id, ok := postIDParam(c)
		if !ok {
			return
		}
		if err := r.svc.Votes.Cast(c.Request.Context(), id, user.Username, direction); err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, "vote recorded", nil)
	}
}

type searchRequest struct {
	Query      string `json:"query" binding:"required"`
	SearchType string `json:"search_type" binding:"required"`
}

func (r *Router) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()

	switch req.SearchType {
	case "topic":
		posts, err := r.svc.Posts.SearchTopics(ctx, req.Query)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, "", gin.H{"posts": posts})
	case "email":
		user, posts, err := r.svc.Posts.SearchByEmail(ctx, req.Query)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, "", gin.H{
			"user":  gin.H{"username": user.Username, "email": user.Email, "role": user.Role},
			"posts": posts,
		})
	default:
		respondError(c, http.StatusBadRequest, "search_type must be topic or email")
	}
}
