package routes

import (
	"github.com/gin-gonic/gin"

	"campushub/auth"
	"campushub/config"
	"campushub/db"
	"campushub/handlers"
	"campushub/models"
)

// SetupRoutes configures the API routes. Handlers receive the store and
// config through their constructors; nothing is pulled from globals.
func SetupRoutes(r *gin.Engine, cfg *config.Config, store *db.Store) {
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := auth.NewHandler(store, issuer)
	subjects := handlers.NewSubjectHandler(store)
	files := handlers.NewFileHandler(cfg.UploadDir)
	assignments := handlers.NewAssignmentHandler(store, cfg.UploadDir)
	grades := handlers.NewGradeHandler(store)
	messages := handlers.NewMessageHandler(store)
	calendar := handlers.NewCalendarHandler(store)
	tasks := handlers.NewTaskHandler(store)
	profile := handlers.NewProfileHandler(store)

	// Public routes
	r.POST("/api/auth/signup", authHandler.Signup)
	r.POST("/api/auth/login", authHandler.Login)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(auth.RequireAuth(issuer))

	teacherOnly := auth.RequireRole(models.RoleTeacher)
	studentOnly := auth.RequireRole(models.RoleStudent)
	alumniOnly := auth.RequireRole(models.RoleAlumni)

	// User routes
	protected.GET("/profile", profile.Get)
	protected.GET("/auth/check", profile.Check)

	// Subject routes
	protected.POST("/subjects", teacherOnly, subjects.Create)
	protected.GET("/subjects", subjects.List)
	protected.GET("/subjects/mine", teacherOnly, subjects.ListMine)
	protected.PUT("/subjects/:id/units", teacherOnly, subjects.UpdateUnits)

	// File routes
	protected.POST("/files", files.Upload)
	protected.GET("/files/:name", files.Download)

	// Assignment routes
	protected.POST("/assignments", teacherOnly, assignments.Create)
	protected.GET("/subjects/:id/assignments", assignments.ListBySubject)
	protected.POST("/assignments/:id/submissions", studentOnly, assignments.Submit)

	// Grade routes
	protected.POST("/grades", teacherOnly, grades.Upsert)
	protected.GET("/grades", grades.List)

	// Message routes
	protected.GET("/subjects/:id/messages", messages.ListBySubject)
	protected.POST("/subjects/:id/messages", messages.Post)
	protected.GET("/alumni/messages", alumniOnly, messages.ListAlumni)
	protected.POST("/alumni/messages", alumniOnly, messages.PostAlumni)

	// Calendar routes
	protected.GET("/calendar", calendar.List)
	protected.POST("/calendar", teacherOnly, calendar.Create)
	protected.PUT("/calendar/:id", teacherOnly, calendar.Update)
	protected.DELETE("/calendar/:id", teacherOnly, calendar.Delete)
	protected.POST("/calendar/import", teacherOnly, calendar.Import)

	// Task routes
	protected.POST("/tasks", tasks.Create)
	protected.GET("/tasks", tasks.List)
	protected.PUT("/tasks/:id", tasks.Update)
	protected.DELETE("/tasks/:id", tasks.Delete)
	protected.POST("/tasks/deadline-check", tasks.DeadlineCheck)
}
