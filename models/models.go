package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the API.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAlumni  = "alumni"
)

// LoginRequest for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=teacher student alumni"`
}

// SignupRequest for user registration
type SignupRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"required,oneof=teacher student alumni"`
	Name           string `json:"name" binding:"required"`
	Degree         string `json:"degree" binding:"required"`
	Department     string `json:"department" binding:"required"`
	AdditionalInfo string `json:"additionalInfo"`
}

// AuthResponse is returned by both signup and login.
type AuthResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// User model. Role is fixed at signup and users are never deleted.
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"`
	Role           string             `json:"role" bson:"role"`
	Name           string             `json:"name" bson:"name"`
	Degree         string             `json:"degree" bson:"degree"`
	Department     string             `json:"department" bson:"department"`
	AdditionalInfo string             `json:"additionalInfo" bson:"additional_info"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// Section groups file references inside a unit.
type Section struct {
	Name  string   `json:"name" bson:"name"`
	Files []string `json:"files" bson:"files"`
}

// Unit is one ordered block of subject content.
type Unit struct {
	Name     string    `json:"name" bson:"name"`
	Sections []Section `json:"sections" bson:"sections"`
}

// Subject model; mutable only by its creator.
type Subject struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Degree     string             `json:"degree" bson:"degree"`
	Department string             `json:"department" bson:"department"`
	CreatorID  primitive.ObjectID `json:"creator_id" bson:"creator_id"`
	Units      []Unit             `json:"units" bson:"units"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// CreateSubjectRequest for subject creation
type CreateSubjectRequest struct {
	Title      string `json:"title" binding:"required"`
	Degree     string `json:"degree" binding:"required"`
	Department string `json:"department" binding:"required"`
	Units      []Unit `json:"units"`
}

// UpdateUnitsRequest replaces a subject's unit list.
type UpdateUnitsRequest struct {
	Units []Unit `json:"units" binding:"required"`
}

// Submission is one student upload for an assignment. Submissions are
// append-only; a student may appear more than once.
type Submission struct {
	StudentID   primitive.ObjectID `json:"student_id" bson:"student_id"`
	FileURL     string             `json:"file_url" bson:"file_url"`
	SubmittedAt time.Time          `json:"submitted_at" bson:"submitted_at"`
}

// Assignment model
type Assignment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	DueDate     string             `json:"due_date" bson:"due_date"`
	SubjectID   primitive.ObjectID `json:"subject_id" bson:"subject_id"`
	CreatorID   primitive.ObjectID `json:"creator_id" bson:"creator_id"`
	FileURL     string             `json:"file_url,omitempty" bson:"file_url,omitempty"`
	Submissions []Submission       `json:"submissions" bson:"submissions"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Grade holds the marks for one (student, subject) pair. One logical
// record per pair; writes replace the whole document.
type Grade struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentID   primitive.ObjectID `json:"student_id" bson:"student_id"`
	SubjectID   primitive.ObjectID `json:"subject_id" bson:"subject_id"`
	CycleTest1  float64            `json:"cycleTest1" bson:"cycle_test1"`
	CycleTest2  float64            `json:"cycleTest2" bson:"cycle_test2"`
	Assignments float64            `json:"assignments" bson:"assignments"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// GradeRequest for grade upsert
type GradeRequest struct {
	StudentID   string  `json:"student_id" binding:"required"`
	SubjectID   string  `json:"subject_id" binding:"required"`
	CycleTest1  float64 `json:"cycleTest1"`
	CycleTest2  float64 `json:"cycleTest2"`
	Assignments float64 `json:"assignments"`
}

// Message is a post in a subject channel.
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text       string             `json:"text" bson:"text"`
	SenderID   primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	SenderName string             `json:"sender_name" bson:"sender_name"`
	SubjectID  primitive.ObjectID `json:"subject_id" bson:"subject_id"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// AlumniMessage is a post in a degree+department channel.
type AlumniMessage struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text       string             `json:"text" bson:"text"`
	SenderID   primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	SenderName string             `json:"sender_name" bson:"sender_name"`
	Degree     string             `json:"degree" bson:"degree"`
	Department string             `json:"department" bson:"department"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// PostMessageRequest for both message channels
type PostMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// Task model. NotificationSent flips exactly once, inside the
// deadline-check sweep.
type Task struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text             string             `json:"text" bson:"text"`
	Category         string             `json:"category" bson:"category"`
	Priority         string             `json:"priority" bson:"priority"`
	DueDate          time.Time          `json:"due_date" bson:"due_date"`
	Completed        bool               `json:"completed" bson:"completed"`
	CreatorID        primitive.ObjectID `json:"creator_id" bson:"creator_id"`
	NotificationSent bool               `json:"notification_sent" bson:"notification_sent"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}

// TaskRequest for task creation and update
type TaskRequest struct {
	Text      string    `json:"text" binding:"required"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	DueDate   time.Time `json:"due_date" binding:"required"`
	Completed bool      `json:"completed"`
}

// CalendarEntry is one row of the global academic calendar. Date is
// stored normalized as YYYY-MM-DD.
type CalendarEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Day         string             `json:"day" bson:"day"`
	Date        string             `json:"date" bson:"date"`
	Description string             `json:"description" bson:"description"`
}

// CalendarEntryRequest for create/update/import
type CalendarEntryRequest struct {
	Day         string `json:"day" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required"`
}
