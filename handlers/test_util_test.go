package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campushub/auth"
	"campushub/db"
)

// mockStore builds a Store over a mock client for handler tests.
func mockStore(client *mongo.Client) *db.Store {
	database := client.Database("campushub")
	return &db.Store{
		Client:         client,
		Users:          database.Collection("users"),
		Subjects:       database.Collection("subjects"),
		Assignments:    database.Collection("assignments"),
		Grades:         database.Collection("grades"),
		Messages:       database.Collection("messages"),
		AlumniMessages: database.Collection("alumni_messages"),
		Tasks:          database.Collection("tasks"),
		Calendar:       database.Collection("calendar"),
	}
}

// authAs stands in for the auth middleware with a fixed caller.
func authAs(userID primitive.ObjectID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.CtxUserID, userID.Hex())
		c.Set(auth.CtxRole, role)
		c.Next()
	}
}

func performJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
