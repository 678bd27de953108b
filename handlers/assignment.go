package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campushub/db"
	"campushub/models"
	"campushub/utils"
)

// AssignmentHandler owns the assignments collection and the submissions
// embedded in it.
type AssignmentHandler struct {
	store     *db.Store
	uploadDir string
}

func NewAssignmentHandler(store *db.Store, uploadDir string) *AssignmentHandler {
	return &AssignmentHandler{store: store, uploadDir: uploadDir}
}

// Create creates an assignment for a subject owned by the calling
// teacher; an attachment is optional.
func (h *AssignmentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	dueDate := c.PostForm("due_date")
	subjectHex := c.PostForm("subject_id")
	if title == "" || dueDate == "" || subjectHex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, due_date and subject_id are required"})
		return
	}

	subjectID, err := primitive.ObjectIDFromHex(subjectHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subject_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	var subject models.Subject
	err = h.store.Subjects.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&subject)
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
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the subject creator can add assignments"})
		return
	}

	assignment := models.Assignment{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		SubjectID:   subjectID,
		CreatorID:   userID,
		Submissions: []models.Submission{},
		CreatedAt:   time.Now(),
	}

	if file, err := c.FormFile("file"); err == nil {
		name := utils.StoredFileName(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
			log.Printf("Error saving assignment file: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error storing file"})
			return
		}
		assignment.FileURL = "/api/files/" + name
	}

	result, err := h.store.Assignments.InsertOne(ctx, assignment)
	if err != nil {
		log.Printf("Error inserting assignment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	assignment.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, assignment)
}

// ListBySubject lists the assignments of one subject, for callers allowed
// to see that subject.
func (h *AssignmentHandler) ListBySubject(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	subjectID, ok := objectIDParam(c, "id")
	if !ok {
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
	if !canAccessSubject(user, &subject) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not allowed to view this subject"})
		return
	}

	cursor, err := h.store.Assignments.Find(ctx, bson.M{"subject_id": subjectID})
	if err != nil {
		log.Printf("Error querying assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	assignments := []models.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		log.Printf("Error decoding assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// Submit appends a student submission to an assignment. Submissions are
// append-only: resubmitting adds another entry rather than replacing the
// first, and readers must not assume one submission per student.
func (h *AssignmentHandler) Submit(c *gin.Context) {
	user, ok := currentUser(c, h.store)
	if !ok {
		return
	}

	assignmentID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A file is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	var assignment models.Assignment
	err = h.store.Assignments.FindOne(ctx, bson.M{"_id": assignmentID}).Decode(&assignment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Assignment not found"})
		} else {
			log.Printf("Error querying assignment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		}
		return
	}

	var subject models.Subject
	err = h.store.Subjects.FindOne(ctx, bson.M{"_id": assignment.SubjectID}).Decode(&subject)
	if err != nil {
		log.Printf("Error querying subject: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if !canAccessSubject(user, &subject) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not allowed to submit for this subject"})
		return
	}

	name := utils.StoredFileName(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		log.Printf("Error saving submission file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error storing file"})
		return
	}

	submission := models.Submission{
		StudentID:   user.ID,
		FileURL:     "/api/files/" + name,
		SubmittedAt: time.Now(),
	}

	_, err = h.store.Assignments.UpdateOne(ctx,
		bson.M{"_id": assignmentID},
		bson.M{"$push": bson.M{"submissions": submission}})
	if err != nil {
		log.Printf("Error recording submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// canAccessSubject reports whether the caller may read a subject: its
// creator, or anyone from the subject's degree and department.
func canAccessSubject(user *models.User, subject *models.Subject) bool {
	if subject.CreatorID == user.ID {
		return true
	}
	return subject.Degree == user.Degree && subject.Department == user.Department
}
