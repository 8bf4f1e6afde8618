package http

import (
	"net/http"
	"strings"

	"github.com/cleverbadge/cleverbadge/internal/events"
)

// GET /api/events?q=...&limit=... — recent lifecycle events, admin audit view.
func AuditEventsHandler(ev *events.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ev == nil {
			writeJSON(w, http.StatusOK, map[string]any{"events": []any{}})
			return
		}
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		list, err := ev.Recent(r.Context(), q, parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeErr(w, http.StatusInternalServerError, CodeInternal, err.Error())
			return
		}
		type item struct {
			Offset    int64  `json:"offset"`
			Type      string `json:"type"`
			Key       string `json:"key"`
			Data      string `json:"data"`
			CreatedAt int64  `json:"created_at"`
		}
		out := make([]item, 0, len(list))
		for _, e := range list {
			out = append(out, item{Offset: e.Offset, Type: e.Type, Key: e.Key, Data: e.DataJSON, CreatedAt: e.CreatedAt})
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": out})
	}
}
