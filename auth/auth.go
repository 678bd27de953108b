package auth

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campushub/db"
	"campushub/models"
)

// Handler owns the signup and login routes.
type Handler struct {
	store  *db.Store
	issuer *Issuer
}

func NewHandler(store *db.Store, issuer *Issuer) *Handler {
	return &Handler{store: store, issuer: issuer}
}

// Signup registers a new user and returns a session token
func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing your request"})
		return
	}

	user := models.User{
		Email:          req.Email,
		Password:       hashed,
		Role:           req.Role,
		Name:           req.Name,
		Degree:         req.Degree,
		Department:     req.Department,
		AdditionalInfo: req.AdditionalInfo,
		CreatedAt:      time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	// The unique email index makes duplicate detection atomic with the
	// insert; a prior count check would race with concurrent signups.
	result, err := h.store.Users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		log.Printf("Error inserting user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	userID := result.InsertedID.(primitive.ObjectID).Hex()
	token, err := h.issuer.Issue(userID, user.Role)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error generating token"})
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, Role: user.Role, Name: user.Name})
}

// Login authenticates a user and returns a session token
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := h.store.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		} else {
			log.Printf("Error querying user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		}
		return
	}

	// The stated role must match the stored one regardless of whether the
	// password is correct.
	if req.Role != user.Role {
		c.JSON(http.StatusForbidden, gin.H{"message": "Role does not match this account"})
		return
	}

	if err := CheckPassword(user.Password, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := h.issuer.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, Role: user.Role, Name: user.Name})
}
