package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/groups/{groupID}/highscore", handler.GetGroupHighscore)
	mux.HandleFunc("GET /v1/schedule/football", handler.GetFootballSchedule)
	mux.HandleFunc("GET /v1/schedule/boxing", handler.GetBoxingSchedule)
	mux.HandleFunc("GET /v1/schedule/ufc", handler.GetUFCSchedule)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-streaks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshStreaksJob)))
}
