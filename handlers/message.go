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
	"go.mongodb.org/mongo-driver/mongo/options"

	"campushub/db"
	"campushub/models"
)

// MessageHandler owns the subject and alumni message collections. Both
// channels are append-only and listed in creation order.
type MessageHandler struct {
	store *db.Store
}

func NewMessageHandler(store *db.Store) *MessageHandler {
	return &MessageHandler{store: store}
}

// ListBySubject lists the messages of one subject channel
func (h *MessageHandler) ListBySubject(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	subjectID, ok := h.subjectForCaller(c, user)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Messages.Find(ctx,
		bson.M{"subject_id": subjectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		log.Printf("Error querying messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		log.Printf("Error decoding messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Post appends a message to a subject channel
func (h *MessageHandler) Post(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	subjectID, ok := h.subjectForCaller(c, user)
	if !ok {
		return
	}

	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	message := models.Message{
		Text:       req.Text,
		SenderID:   user.ID,
		SenderName: user.Name,
		SubjectID:  subjectID,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Messages.InsertOne(ctx, message)
	if err != nil {
		log.Printf("Error inserting message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	message.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, message)
}

// ListAlumni lists the alumni channel of the caller's degree and
// department. The scope comes from the caller's identity record, never
// from the request.
func (h *MessageHandler) ListAlumni(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.AlumniMessages.Find(ctx,
		bson.M{"degree": user.Degree, "department": user.Department},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		log.Printf("Error querying alumni messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	messages := []models.AlumniMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		log.Printf("Error decoding alumni messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// PostAlumni appends a message to the caller's degree+department channel
func (h *MessageHandler) PostAlumni(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	message := models.AlumniMessage{
		Text:       req.Text,
		SenderID:   user.ID,
		SenderName: user.Name,
		Degree:     user.Degree,
		Department: user.Department,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.AlumniMessages.InsertOne(ctx, message)
	if err != nil {
		log.Printf("Error inserting alumni message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	message.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, message)
}

// subjectForCaller resolves the :id parameter and checks the caller can
// read that subject's channel.
func (h *MessageHandler) subjectForCaller(c *gin.Context, user *models.User) (primitive.ObjectID, bool) {
	subjectID, ok := objectIDParam(c, "id")
	if !ok {
		return primitive.NilObjectID, false
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
		return primitive.NilObjectID, false
	}

	if !canAccessSubject(user, &subject) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not allowed to view this subject"})
		return primitive.NilObjectID, false
	}
	return subjectID, true
}
