package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"campushub/models"
)

func gradeRouter(mt *mtest.T, caller primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGradeHandler(mockStore(mt.Client))
	r := gin.New()
	r.POST("/api/grades", authAs(caller, models.RoleTeacher), h.Upsert)
	return r
}

func TestGradeUpsertKeyedOnPair(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts one record per (student, subject)", func(mt *mtest.T) {
		studentID := primitive.NewObjectID()
		subjectID := primitive.NewObjectID()
		r := gradeRouter(mt, primitive.NewObjectID())

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		w := performJSON(r, http.MethodPost, "/api/grades", models.GradeRequest{
			StudentID:  studentID.Hex(),
			SubjectID:  subjectID.Hex(),
			CycleTest1: 40,
		})
		if w.Code != http.StatusOK {
			mt.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}

		ev := mt.GetStartedEvent()
		if ev == nil || ev.CommandName != "update" {
			mt.Fatalf("expected an update command, got %+v", ev)
		}
		stmt := ev.Command.Lookup("updates").Array().Lookup("0").Document()
		if !stmt.Lookup("upsert").Boolean() {
			mt.Fatalf("write is not an upsert")
		}
		filter := stmt.Lookup("q").Document()
		if got := filter.Lookup("student_id").ObjectID(); got != studentID {
			mt.Fatalf("filter student_id = %s, want %s", got.Hex(), studentID.Hex())
		}
		if got := filter.Lookup("subject_id").ObjectID(); got != subjectID {
			mt.Fatalf("filter subject_id = %s, want %s", got.Hex(), subjectID.Hex())
		}
	})
}

func TestGradeUpsertLatestValuesWin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second submit for a pair reports the latest scores", func(mt *mtest.T) {
		studentID := primitive.NewObjectID()
		subjectID := primitive.NewObjectID()
		r := gradeRouter(mt, primitive.NewObjectID())

		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		first := performJSON(r, http.MethodPost, "/api/grades", models.GradeRequest{
			StudentID: studentID.Hex(), SubjectID: subjectID.Hex(), CycleTest1: 40, CycleTest2: 35,
		})
		second := performJSON(r, http.MethodPost, "/api/grades", models.GradeRequest{
			StudentID: studentID.Hex(), SubjectID: subjectID.Hex(), CycleTest1: 45, CycleTest2: 38,
		})
		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			mt.Fatalf("unexpected statuses %d, %d", first.Code, second.Code)
		}

		var grade models.Grade
		if err := json.Unmarshal(second.Body.Bytes(), &grade); err != nil {
			mt.Fatalf("decode error: %v", err)
		}
		if grade.CycleTest1 != 45 || grade.CycleTest2 != 38 {
			mt.Fatalf("latest values lost: %+v", grade)
		}

		// Both writes replace under the same pair filter.
		for i := 0; i < 2; i++ {
			ev := mt.GetStartedEvent()
			if ev == nil || ev.CommandName != "update" {
				mt.Fatalf("write %d is not an update command", i)
			}
		}
	})
}

func TestGradeUpsertRetriesOnDuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("losing a racing insert retries and replaces", func(mt *mtest.T) {
		r := gradeRouter(mt, primitive.NewObjectID())

		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
			mtest.CreateSuccessResponse(),
		)

		w := performJSON(r, http.MethodPost, "/api/grades", models.GradeRequest{
			StudentID: primitive.NewObjectID().Hex(),
			SubjectID: primitive.NewObjectID().Hex(),
		})
		if w.Code != http.StatusOK {
			mt.Fatalf("expected the retry to succeed, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestGradeUpsertInvalidIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rejects malformed ids before touching the store", func(mt *mtest.T) {
		r := gradeRouter(mt, primitive.NewObjectID())

		w := performJSON(r, http.MethodPost, "/api/grades", models.GradeRequest{
			StudentID: "not-an-id",
			SubjectID: primitive.NewObjectID().Hex(),
		})
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("unexpected status %d", w.Code)
		}
		if events := mt.GetAllStartedEvents(); len(events) != 0 {
			mt.Fatalf("expected no store commands, got %d", len(events))
		}
	})
}
