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

// GradeHandler owns the grades collection.
type GradeHandler struct {
	store *db.Store
}

func NewGradeHandler(store *db.Store) *GradeHandler {
	return &GradeHandler{store: store}
}

// Upsert records marks for a (student, subject) pair. One logical record
// per pair: an existing record is replaced in place, last write wins.
func (h *GradeHandler) Upsert(c *gin.Context) {
	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid student_id"})
		return
	}
	subjectID, err := primitive.ObjectIDFromHex(req.SubjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subject_id"})
		return
	}

	grade := models.Grade{
		StudentID:   studentID,
		SubjectID:   subjectID,
		CycleTest1:  req.CycleTest1,
		CycleTest2:  req.CycleTest2,
		Assignments: req.Assignments,
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	// Single-document atomic upsert keyed on the pair. The unique
	// (student_id, subject_id) index turns a racing double insert into a
	// duplicate-key error for the loser; the retry then matches the
	// winner's record and replaces it, so the last write still wins.
	for attempt := 0; ; attempt++ {
		_, err = h.store.Grades.ReplaceOne(ctx,
			bson.M{"student_id": studentID, "subject_id": subjectID},
			grade,
			options.Replace().SetUpsert(true))
		if err != nil && mongo.IsDuplicateKeyError(err) && attempt == 0 {
			continue
		}
		break
	}
	if err != nil {
		log.Printf("Error upserting grade: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, grade)
}

// List returns grade records filtered by student_id and subject_id query
// parameters. Students and alumni may only read their own records.
func (h *GradeHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	filter := bson.M{}
	if hex := c.Query("student_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid student_id"})
			return
		}
		filter["student_id"] = id
	}
	if hex := c.Query("subject_id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subject_id"})
			return
		}
		filter["subject_id"] = id
	}

	if user.Role != models.RoleTeacher {
		filter["student_id"] = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Grades.Find(ctx, filter)
	if err != nil {
		log.Printf("Error querying grades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	grades := []models.Grade{}
	if err := cursor.All(ctx, &grades); err != nil {
		log.Printf("Error decoding grades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, grades)
}
