package httpapi

import (
	"net/http"
	"time"

	"github.com/fbet-app/fbet/internal/domain/schedule"
	"github.com/fbet-app/fbet/internal/usecase"
)

// footballCacheControl advertises CDN caching for the merged schedule. The
// in-process TTL cache is the actual freshness guarantee; this header only
// lets an edge reuse responses between refreshes.
const footballCacheControl = "public, s-maxage=1800, stale-while-revalidate=7200"

type footballMatchDTO struct {
	MatchID   string    `json:"matchID"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	MatchDate time.Time `json:"matchDate"`
	Result    string    `json:"result,omitempty"`
	Status    string    `json:"status"`
}

type scheduleEventDTO struct {
	Title       string    `json:"title"`
	StartsAt    time.Time `json:"startsAt"`
	Location    string    `json:"location,omitempty"`
	Broadcaster string    `json:"broadcaster,omitempty"`
}

func (h *Handler) GetFootballSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFootballSchedule")
	defer span.End()

	events, err := h.scheduleService.Football(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get football schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]footballMatchDTO, 0, len(events))
	for _, event := range events {
		items = append(items, footballMatchDTO{
			MatchID:   event.SourceID,
			HomeTeam:  event.HomeTeam,
			AwayTeam:  event.AwayTeam,
			MatchDate: event.StartsAt,
			Result:    event.Result,
			Status:    event.Status,
		})
	}

	w.Header().Set("Cache-Control", footballCacheControl)
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBoxingSchedule(w http.ResponseWriter, r *http.Request) {
	h.serveSingleSourceFeed(w, r, usecase.FeedBoxing, "httpapi.Handler.GetBoxingSchedule")
}

func (h *Handler) GetUFCSchedule(w http.ResponseWriter, r *http.Request) {
	h.serveSingleSourceFeed(w, r, usecase.FeedUFC, "httpapi.Handler.GetUFCSchedule")
}

func (h *Handler) serveSingleSourceFeed(w http.ResponseWriter, r *http.Request, feed string, spanName string) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	events, err := h.scheduleService.Feed(ctx, feed)
	if err != nil {
		h.logger.WarnContext(ctx, "get feed schedule failed", "feed", feed, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleEventsToDTO(events))
}

func scheduleEventsToDTO(events []schedule.Event) []scheduleEventDTO {
	items := make([]scheduleEventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, scheduleEventDTO{
			Title:       event.Title,
			StartsAt:    event.StartsAt,
			Location:    event.Location,
			Broadcaster: event.Broadcaster,
		})
	}
	return items
}
