package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *Router) dashboardStats(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	stats, err := r.svc.Dashboard.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

func (r *Router) dashboardTopics(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	posts, err := r.svc.Posts.ApprovedTopics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"posts": posts})
}

// profileEntry is one row of the dashboard profiles listing.
type profileEntry struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Contribution int    `json:"contribution"`
}

func (r *Router) dashboardProfiles(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	ctx := c.Request.Context()

	users, err := r.svc.Users.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	entries := make([]profileEntry, 0, len(users))
	for _, u := range users {
		total, err := r.svc.Contrib.Total(ctx, u.Username)
		if err != nil {
			writeError(c, err)
			return
		}
		entries = append(entries, profileEntry{
			Username:     u.Username,
			Email:        u.Email,
			Role:         u.Role,
			Contribution: total,
		})
	}
	respond(c, http.StatusOK, "", gin.H{"profiles": entries})
}

type assignModeratorRequest struct {
	Username string `json:"username" binding:"required"`
}

func (r *Router) assignModerator(c *gin.Context) {
	user, ok := requireLogin(c)
	if !ok {
		return
	}
	var req assignModeratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := r.svc.Users.AssignModerator(c.Request.Context(), user, req.Username); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "moderator assigned", nil)
}

func (r *Router) profile(c *gin.Context) {
	summary, err := r.svc.Posts.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", summary)
}

func (r *Router) notifications(c *gin.Context) {
	items, err := r.svc.Notifier.Recent(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"notifications": items})
}
