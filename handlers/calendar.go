package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campushub/db"
	"campushub/models"
	"campushub/utils"
)

// CalendarHandler owns the global academic calendar.
type CalendarHandler struct {
	store *db.Store
}

func NewCalendarHandler(store *db.Store) *CalendarHandler {
	return &CalendarHandler{store: store}
}

// List returns all calendar entries ordered by date
func (h *CalendarHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cursor, err := h.store.Calendar.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		log.Printf("Error querying calendar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	entries := []models.CalendarEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		log.Printf("Error decoding calendar entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Create adds one calendar entry
func (h *CalendarHandler) Create(c *gin.Context) {
	var req models.CalendarEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	date, err := utils.NormalizeDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	entry := models.CalendarEntry{Day: req.Day, Date: date, Description: req.Description}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Calendar.InsertOne(ctx, entry)
	if err != nil {
		log.Printf("Error inserting calendar entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	entry.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, entry)
}

// Update replaces one calendar entry
func (h *CalendarHandler) Update(c *gin.Context) {
	entryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CalendarEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}

	date, err := utils.NormalizeDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	entry := models.CalendarEntry{ID: entryID, Day: req.Day, Date: date, Description: req.Description}
	result, err := h.store.Calendar.ReplaceOne(ctx, bson.M{"_id": entryID}, entry)
	if err != nil {
		log.Printf("Error updating calendar entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Calendar entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete removes one calendar entry
func (h *CalendarHandler) Delete(c *gin.Context) {
	entryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	result, err := h.store.Calendar.DeleteOne(ctx, bson.M{"_id": entryID})
	if err != nil {
		log.Printf("Error deleting calendar entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Calendar entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Calendar entry deleted"})
}

// Import replaces the whole calendar with the posted entries. Dates in
// DD.MM.YYYY form are normalized to YYYY-MM-DD before anything is
// written. The wipe and the insert are atomic per document only; a
// concurrent reader may observe an empty or partial calendar.
func (h *CalendarHandler) Import(c *gin.Context) {
	var req []models.CalendarEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "errors": []string{err.Error()}})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one entry is required"})
		return
	}

	entries := make([]interface{}, 0, len(req))
	for _, item := range req {
		date, err := utils.NormalizeDate(item.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		entries = append(entries, models.CalendarEntry{
			Day:         item.Day,
			Date:        date,
			Description: item.Description,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	if _, err := h.store.Calendar.DeleteMany(ctx, bson.M{}); err != nil {
		log.Printf("Error clearing calendar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	if _, err := h.store.Calendar.InsertMany(ctx, entries); err != nil {
		log.Printf("Error importing calendar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Calendar imported", "count": len(entries)})
}
