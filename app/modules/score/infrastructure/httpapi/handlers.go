package scorehttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/go-chi/chi/v5"
)

// ScoreHTTP serves the read-only score API.
type ScoreHTTP struct {
	service scoreservice.Service
	logger  *slog.Logger
}

// NewScoreHTTP creates a new ScoreHTTP.
func NewScoreHTTP(service scoreservice.Service, logger *slog.Logger) *ScoreHTTP {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreHTTP{service: service, logger: logger}
}

type scoreResponse struct {
	GuildID  sharedtypes.GuildID   `json:"guild_id"`
	MemberID sharedtypes.DiscordID `json:"member_id"`
	Category *string               `json:"category,omitempty"`
	Total    int64                 `json:"total"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleGetScore serves GET /v1/guilds/{guildID}/members/{memberID}/score.
func (h *ScoreHTTP) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	guildID := sharedtypes.GuildID(chi.URLParam(r, "guildID"))
	memberID := sharedtypes.DiscordID(chi.URLParam(r, "memberID"))

	var category *string
	if r.URL.Query().Has("category") {
		c := r.URL.Query().Get("category")
		category = &c
	}

	total, err := h.service.GetScore(r.Context(), guildID, memberID, category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{GuildID: guildID, MemberID: memberID, Category: category, Total: total})
}

// HandleGetMember serves GET /v1/guilds/{guildID}/members/{memberID}.
func (h *ScoreHTTP) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.GetMemberScore(r.Context(),
		sharedtypes.GuildID(chi.URLParam(r, "guildID")),
		sharedtypes.DiscordID(chi.URLParam(r, "memberID")),
	)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// HandleListPoints serves GET /v1/guilds/{guildID}/points.
func (h *ScoreHTTP) HandleListPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := scoretypes.PointEventFilter{
		GuildID:    sharedtypes.GuildID(chi.URLParam(r, "guildID")),
		ReceiverID: sharedtypes.DiscordID(q.Get("receiver")),
		SenderID:   sharedtypes.DiscordID(q.Get("sender")),
		Category:   q.Get("category"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, shared.CodeInvalidArgument, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, shared.CodeInvalidArgument, "since must be RFC 3339")
			return
		}
		filter.Since = since
	}

	events, err := h.service.ListPointEvents(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if events == nil {
		events = []scoretypes.PointEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *ScoreHTTP) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthorized):
		status = http.StatusForbidden
	case shared.IsStorageError(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "HTTP read failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeError(w, status, shared.ErrorCode(err), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
