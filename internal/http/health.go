package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarian/internal/database"
	"github.com/openshelf/librarian/internal/tasks"
)

// HealthResponse reports the liveness of the service and its two backing
// stores: the library database and the task queue database.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	tasks   *tasks.Client
	version string
}

func NewHealthController(db *database.Database, taskClient *tasks.Client, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   taskClient,
		version: version,
	}
}

// checkDatabase pings the library database. Returns the check result and
// whether the check passed.
func (h *HealthController) checkDatabase() (string, bool) {
	if h.db == nil {
		return "not configured", true
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error(), false
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

// checkTaskQueue pings the task queue database. A disabled queue is not a
// failure; borrowing endpoints work without background jobs.
func (h *HealthController) checkTaskQueue() (string, bool) {
	if h.tasks == nil {
		return "disabled", true
	}
	if err := h.tasks.Ping(); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	dbResult, dbOK := h.checkDatabase()
	checks["database"] = dbResult

	queueResult, queueOK := h.checkTaskQueue()
	checks["task_queue"] = queueResult

	if !dbOK || !queueOK {
		status = "unhealthy"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
