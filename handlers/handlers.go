package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campushub/auth"
	"campushub/db"
	"campushub/models"
)

const queryTimeout = 10 * time.Second

// currentUserID reads the authenticated caller's id set by the auth
// middleware. The middleware guarantees it is present on protected routes.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(auth.CtxUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token subject"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser loads the caller's identity record. Degree/department
// scoping always reads current store state, never token contents.
func currentUser(c *gin.Context, store *db.Store) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	var user models.User
	err := store.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Account no longer exists"})
		} else {
			log.Printf("Error querying user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		}
		return nil, false
	}
	return &user, true
}

// objectIDParam parses an ObjectID path parameter.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
