package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarian/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	borrowingsController := NewBorrowingsController(cfg.Circulation)
	reservationsController := NewReservationsController(cfg.Circulation)
	booksController := NewBooksController(cfg.Books)
	membersController := NewMembersController(cfg.Members, cfg.Numbers, cfg.TaskClient)
	usersController := NewUsersController(cfg.AuthService, cfg.SessionManager, cfg.Users, cfg.TaskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Borrowing endpoints
	router.GET("/api/borrowings", borrowingsController.GetBorrowings)
	router.GET("/api/borrowings/:id", borrowingsController.GetBorrowing)
	router.POST("/api/borrowings", borrowingsController.CreateBorrowing)
	router.PUT("/api/borrowings/:id", borrowingsController.UpdateBorrowing)
	router.POST("/api/borrowings/:id/return", borrowingsController.ReturnBorrowing)
	router.DELETE("/api/borrowings/:id", borrowingsController.DeleteBorrowing)

	// Reservation endpoints
	router.GET("/api/reservations", reservationsController.GetReservations)
	router.GET("/api/reservations/:id", reservationsController.GetReservation)
	router.POST("/api/reservations", reservationsController.CreateReservation)
	router.PUT("/api/reservations/:id", reservationsController.UpdateReservation)
	router.POST("/api/reservations/:id/receive", reservationsController.ReceiveReservation)
	router.DELETE("/api/reservations/:id", reservationsController.DeleteReservation)

	// Catalog endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/search", booksController.SearchBooks)
	router.GET("/api/books/stats", booksController.GetBookStats)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", booksController.CreateBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Member endpoints
	router.GET("/api/members", membersController.GetAllMembers)
	router.GET("/api/members/me", membersController.GetCurrentMember)
	router.GET("/api/members/search", membersController.SearchMembers)
	router.GET("/api/members/stats", membersController.GetMemberStats)
	router.GET("/api/members/number/:number", membersController.GetMemberByNumber)
	router.GET("/api/members/:id", membersController.GetMember)
	router.POST("/api/members", membersController.CreateMember)
	router.PUT("/api/members/:id", membersController.UpdateMember)
	router.POST("/api/members/:id/suspend", membersController.SuspendMember)
	router.POST("/api/members/:id/activate", membersController.ActivateMember)
	router.DELETE("/api/members/:id", membersController.DeleteMember)

	// User account endpoints
	router.POST("/api/users", usersController.Register)
	router.POST("/api/users/login", usersController.Login)
	router.POST("/api/users/logout", usersController.Logout)
	router.POST("/api/users/password/forgot", usersController.ForgotPassword)
	router.POST("/api/users/password/reset", usersController.ResetPassword)
	router.GET("/api/users", usersController.GetAllUsers)
	router.GET("/api/users/search", usersController.SearchUsers)
	router.GET("/api/users/stats", usersController.GetUserStats)
	router.GET("/api/users/:id", usersController.GetUser)
	router.PUT("/api/users/:id", usersController.UpdateUser)
	router.POST("/api/users/:id/password", usersController.ChangePassword)
	router.POST("/api/users/:id/activate", usersController.ActivateUser)
	router.POST("/api/users/:id/deactivate", usersController.DeactivateUser)
	router.DELETE("/api/users/:id", usersController.DeleteUser)

	return router
}
