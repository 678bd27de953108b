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

	"campushub/db"
	"campushub/models"
)

// SubjectHandler owns the subjects collection.
type SubjectHandler struct {
	store *db.Store
}

func NewSubjectHandler(store *db.Store) *SubjectHandler {
	return &SubjectHandler{store: store}
}

// Create creates a new subject owned by the calling teacher
func (h *SubjectHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	subject := models.Subject{
		Title:      req.Title,
		Degree:     req.Degree,
		Department: req.Department,
		CreatorID:  userID,
		Units:      req.Units,
		CreatedAt:  time.Now(),
	}
	if subject.Units == nil {
		subject.Units = []models.Unit{}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Subjects.InsertOne(ctx, subject)
	if err != nil {
		log.Printf("Error inserting subject: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	subject.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, subject)
}

// List returns subjects scoped by the caller's role: teachers see the
// subjects they created, students and alumni see the subjects of their
// own degree and department.
func (h *SubjectHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var filter bson.M
	if user.Role == models.RoleTeacher {
		filter = bson.M{"creator_id": user.ID}
	} else {
		filter = bson.M{"degree": user.Degree, "department": user.Department}
	}

	h.list(c, filter)
}

// ListMine returns the calling teacher's own subjects
func (h *SubjectHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.list(c, bson.M{"creator_id": userID})
}

func (h *SubjectHandler) list(c *gin.Context, filter bson.M) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Subjects.Find(ctx, filter)
	if err != nil {
		log.Printf("Error querying subjects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	subjects := []models.Subject{}
	if err := cursor.All(ctx, &subjects); err != nil {
		log.Printf("Error decoding subjects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// UpdateUnits replaces the unit list of a subject owned by the caller
func (h *SubjectHandler) UpdateUnits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subjectID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	var subject models.Subject
	err := h.store.Subjects.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Subject not found"})
		} else {
			log.Printf("Error querying subject: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		}
		return
	}

	if subject.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the subject creator can update it"})
		return
	}

	_, err = h.store.Subjects.UpdateOne(ctx,
		bson.M{"_id": subjectID, "creator_id": userID},
		bson.M{"$set": bson.M{"units": req.Units}})
	if err != nil {
		log.Printf("Error updating subject: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	subject.Units = req.Units
	c.JSON(http.StatusOK, subject)
}
