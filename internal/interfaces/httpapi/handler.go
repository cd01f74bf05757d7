package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fbet-app/fbet/internal/usecase"
)

type Handler struct {
	highscoreService *usecase.HighscoreService
	streakService    *usecase.StreakService
	scheduleService  *usecase.ScheduleService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	highscoreService *usecase.HighscoreService,
	streakService *usecase.StreakService,
	scheduleService *usecase.ScheduleService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		highscoreService: highscoreService,
		streakService:    streakService,
		scheduleService:  scheduleService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
