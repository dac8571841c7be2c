package http

import (
	"github.com/openshelf/librarian/internal/auth"
	"github.com/openshelf/librarian/internal/circulation"
	"github.com/openshelf/librarian/internal/database"
	"github.com/openshelf/librarian/internal/database/books"
	"github.com/openshelf/librarian/internal/database/members"
	"github.com/openshelf/librarian/internal/database/users"
	"github.com/openshelf/librarian/internal/sequence"
	"github.com/openshelf/librarian/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	Circulation *circulation.Service
	Books       *books.Repository
	Members     *members.Repository
	Users       *users.Repository
	Numbers     *sequence.Generator

	// Authentication (all nil/empty when auth mode is none)
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
