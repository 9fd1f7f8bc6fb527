package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
)

// allowed SSE tables; anything else in ?tables= is rejected
var subscribableTables = map[string]bool{
	service.TableProfiles:      true,
	service.TableQuestions:     true,
	service.TableVotes:         true,
	service.TableNotifications: true,
	service.TableBoardPosts:    true,
}

// EventsHandler streams table change signals over Server-Sent Events. Events
// carry only the table name; clients re-fetch through the regular endpoints.
type EventsHandler struct {
	realtime *service.RealtimeService
	log      *logger.Logger
}

func NewEventsHandler(realtime *service.RealtimeService, log *logger.Logger) *EventsHandler {
	return &EventsHandler{realtime: realtime, log: log}
}

// Stream handles GET /api/events?tables=votes,notifications
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, apperrors.NewInternalError("streaming unsupported", nil))
		return
	}

	tables := strings.Split(r.URL.Query().Get("tables"), ",")
	var requested []string
	for _, t := range tables {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !subscribableTables[t] {
			respondError(w, r, apperrors.NewValidationError(fmt.Sprintf("unknown table %q", t), nil))
			return
		}
		requested = append(requested, t)
	}
	if len(requested) == 0 {
		respondError(w, r, apperrors.NewValidationError("at least one table is required", nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Buffered so a slow client drops signals instead of blocking dispatch;
	// a dropped signal only delays the re-fetch until the next one.
	signals := make(chan string, 16)
	var disposers []func()
	for _, table := range requested {
		disposers = append(disposers, h.realtime.Subscribe(table, func(table string) {
			select {
			case signals <- table:
			default:
			}
		}))
	}
	defer func() {
		for _, dispose := range disposers {
			dispose()
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case table := <-signals:
			if _, err := fmt.Fprintf(w, "event: changed\ndata: %s\n\n", table); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
