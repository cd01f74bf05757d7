package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fbet-app/fbet/internal/usecase"
)

type highscoreEntryDTO struct {
	UserID      int64      `json:"user_id"`
	Name        string     `json:"name"`
	Points      int        `json:"points"`
	LeaderSince *time.Time `json:"leader_since"`
}

func (h *Handler) GetGroupHighscore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupHighscore")
	defer span.End()

	groupID, err := parseGroupID(r.PathValue("groupID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.highscoreService.ListByGroup(ctx, groupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get group highscore failed", "group_id", groupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]highscoreEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, highscoreEntryDTO{
			UserID:      entry.UserID,
			Name:        entry.Name,
			Points:      entry.Points,
			LeaderSince: entry.LeaderSince,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseGroupID(raw string) (int64, error) {
	groupID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || groupID <= 0 {
		return 0, fmt.Errorf("%w: invalid group id %q", usecase.ErrInvalidInput, raw)
	}
	return groupID, nil
}
