package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campushub/models"
)

func TestCanAccessSubject(t *testing.T) {
	creator := primitive.NewObjectID()
	subject := &models.Subject{
		CreatorID:  creator,
		Degree:     "BSc",
		Department: "CSE",
	}

	owner := &models.User{ID: creator, Role: models.RoleTeacher, Degree: "MSc", Department: "ECE"}
	assert.True(t, canAccessSubject(owner, subject), "creator always has access")

	sameScope := &models.User{ID: primitive.NewObjectID(), Role: models.RoleStudent, Degree: "BSc", Department: "CSE"}
	assert.True(t, canAccessSubject(sameScope, subject), "matching degree+department has access")

	otherDegree := &models.User{ID: primitive.NewObjectID(), Role: models.RoleStudent, Degree: "MSc", Department: "CSE"}
	assert.False(t, canAccessSubject(otherDegree, subject), "degree mismatch is out of scope")

	otherDept := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAlumni, Degree: "BSc", Department: "ECE"}
	assert.False(t, canAccessSubject(otherDept, subject), "department mismatch is out of scope")

	otherTeacher := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeacher, Degree: "MSc", Department: "ECE"}
	assert.False(t, canAccessSubject(otherTeacher, subject), "a different teacher gets no special access")
}
