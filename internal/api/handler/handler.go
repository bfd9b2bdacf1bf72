package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/edulane/course-be/internal/api/storage"
	"github.com/edulane/course-be/internal/auth"
	"github.com/edulane/course-be/internal/domain"
	"github.com/edulane/course-be/internal/notify"
	"github.com/gin-gonic/gin"
)

// Dependencies holds everything the handlers need
type Dependencies struct {
	Logger    *slog.Logger
	Storage   *storage.Storage
	Tokens    *auth.TokenIssuer
	Scheduler *notify.Scheduler
	JobStore  *notify.Store
}

// Handler serves all API routes
type Handler struct {
	logger    *slog.Logger
	storage   *storage.Storage
	tokens    *auth.TokenIssuer
	scheduler *notify.Scheduler
	jobStore  *notify.Store
}

// New creates the API handler
func New(deps *Dependencies) *Handler {
	return &Handler{
		logger:    deps.Logger,
		storage:   deps.Storage,
		tokens:    deps.Tokens,
		scheduler: deps.Scheduler,
		jobStore:  deps.JobStore,
	}
}

// fail writes a JSON error response, translating known domain errors
// to their status codes
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, domain.ErrDuplicateActivity):
		c.JSON(http.StatusConflict, gin.H{"error": "Activity tracker already exists for this week"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		h.logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "detail": err.Error()})
}
