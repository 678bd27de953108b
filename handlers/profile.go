package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/auth"
	"campushub/db"
)

// ProfileHandler returns the caller's own identity record.
type ProfileHandler struct {
	store *db.Store
}

func NewProfileHandler(store *db.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Get returns the authenticated user's profile
func (h *ProfileHandler) Get(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Check is a lightweight endpoint for clients to probe their session
func (h *ProfileHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       c.GetString(auth.CtxUserID),
		"role":          c.GetString(auth.CtxRole),
	})
}
