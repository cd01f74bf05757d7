package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fbet-app/fbet/internal/usecase"
)

type refreshStreaksRequest struct {
	GroupID int64 `json:"group_id" validate:"gte=0"`
}

// RunRefreshStreaksJob recomputes leadership streaks. With a group_id the
// refresh targets that group; with an empty body or group_id 0 it sweeps
// every group.
func (h *Handler) RunRefreshStreaksJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshStreaksJob")
	defer span.End()

	req, err := decodeRefreshStreaksRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	if req.GroupID > 0 {
		result, err := h.streakService.Refresh(ctx, req.GroupID)
		if err != nil {
			h.logger.WarnContext(ctx, "refresh streaks job failed", "group_id", req.GroupID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	summary, err := h.streakService.RefreshAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh all streaks job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func decodeRefreshStreaksRequest(r *http.Request) (refreshStreaksRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req refreshStreaksRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return refreshStreaksRequest{}, nil
		}
		return refreshStreaksRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
