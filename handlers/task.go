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

// deadlineWindow is how far ahead the deadline sweep looks.
const deadlineWindow = 24 * time.Hour

// TaskHandler owns the tasks collection. Tasks are visible only to their
// creator; a lookup that misses the owner filter returns 404 rather than
// revealing the task exists.
type TaskHandler struct {
	store *db.Store
}

func NewTaskHandler(store *db.Store) *TaskHandler {
	return &TaskHandler{store: store}
}

// Create creates a task owned by the caller
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	task := models.Task{
		Text:      req.Text,
		Category:  req.Category,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		Completed: req.Completed,
		CreatorID: userID,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Tasks.InsertOne(ctx, task)
	if err != nil {
		log.Printf("Error inserting task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, task)
}

// List returns the caller's tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Tasks.Find(ctx, bson.M{"creator_id": userID})
	if err != nil {
		log.Printf("Error querying tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Error decoding tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Update replaces the caller's task fields
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	var task models.Task
	err := h.store.Tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": taskID, "creator_id": userID},
		bson.M{"$set": bson.M{
			"text":      req.Text,
			"category":  req.Category,
			"priority":  req.Priority,
			"due_date":  req.DueDate,
			"completed": req.Completed,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		} else {
			log.Printf("Error updating task: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes the caller's task
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Tasks.DeleteOne(ctx, bson.M{"_id": taskID, "creator_id": userID})
	if err != nil {
		log.Printf("Error deleting task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// DeadlineCheck returns the caller's tasks due within the next 24 hours
// that have not been completed or notified yet, and marks them notified.
// Each task is claimed with a conditional update that re-checks the
// unsent flag at write time, so concurrent sweeps for the same owner
// return any given task at most once.
func (h *TaskHandler) DeadlineCheck(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	filter := bson.M{
		"creator_id":        userID,
		"completed":         false,
		"notification_sent": false,
		"due_date":          bson.M{"$gte": now, "$lte": now.Add(deadlineWindow)},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Tasks.Find(ctx, filter)
	if err != nil {
		log.Printf("Error querying tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	candidates := []models.Task{}
	if err := cursor.All(ctx, &candidates); err != nil {
		log.Printf("Error decoding tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	claimed := []models.Task{}
	for _, task := range candidates {
		var updated models.Task
		err := h.store.Tasks.FindOneAndUpdate(ctx,
			bson.M{"_id": task.ID, "notification_sent": false, "completed": false},
			bson.M{"$set": bson.M{"notification_sent": true}},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				// Another sweep claimed it between read and write.
				continue
			}
			// Tasks claimed so far already have notification_sent set;
			// an error response would consume their one delivery, so
			// return the partial set instead.
			log.Printf("Error marking task notified: %v", err)
			break
		}
		claimed = append(claimed, updated)
	}

	c.JSON(http.StatusOK, claimed)
}
