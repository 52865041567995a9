package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/reload"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// Command actions understood by the server
const (
	ActionStatus  = "status"
	ActionRestart = "restart"
	ActionHistory = "history"
)

// DefaultHistoryLimit is used when a history request has no limit
const DefaultHistoryLimit = 20

// Controller is the part of the reloader exposed over the socket
type Controller interface {
	Status() reload.Status
	RequestRestart(ctx context.Context) error
}

// HistorySource serves stored restart records
type HistorySource interface {
	GetRecentRestarts(limit int) ([]watchertypes.RestartRecord, error)
}

// WatcherHandler answers commands for a running watcher
type WatcherHandler struct {
	controller Controller
	history    HistorySource
}

// NewWatcherHandler returns a handler. history may be nil when the
// database is disabled.
func NewWatcherHandler(controller Controller, history HistorySource) *WatcherHandler {
	return &WatcherHandler{controller: controller, history: history}
}

// HandleCommand routes cmd by action
func (h *WatcherHandler) HandleCommand(ctx context.Context, cmd watchertypes.WatcherCommand) watchertypes.WatcherResponse {
	switch cmd.Action {
	case ActionStatus:
		return h.handleStatus()
	case ActionRestart:
		return h.handleRestart(ctx)
	case ActionHistory:
		return h.handleHistory(cmd)
	default:
		return watchertypes.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Unknown command: %s", cmd.Action),
		}
	}
}

func (h *WatcherHandler) handleStatus() watchertypes.WatcherResponse {
	st := h.controller.Status()
	data, err := toMap(st)
	if err != nil {
		return errorResponse(err)
	}
	data["uptime"] = time.Since(st.StartedAt).Round(time.Second).String()
	data["database_enabled"] = h.history != nil

	return watchertypes.WatcherResponse{Success: true, Data: data}
}

func (h *WatcherHandler) handleRestart(ctx context.Context) watchertypes.WatcherResponse {
	if err := h.controller.RequestRestart(ctx); err != nil {
		return errorResponse(err)
	}
	return watchertypes.WatcherResponse{Success: true, Message: "Script restarted"}
}

func (h *WatcherHandler) handleHistory(cmd watchertypes.WatcherCommand) watchertypes.WatcherResponse {
	if h.history == nil {
		return watchertypes.WatcherResponse{Success: false, Error: "Restart history is disabled"}
	}

	limit := DefaultHistoryLimit
	if l, ok := cmd.Data["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	records, err := h.history.GetRecentRestarts(limit)
	if err != nil {
		return errorResponse(err)
	}
	if records == nil {
		records = []watchertypes.RestartRecord{}
	}

	return watchertypes.WatcherResponse{
		Success: true,
		Data:    map[string]interface{}{"restarts": records},
	}
}

func errorResponse(err error) watchertypes.WatcherResponse {
	return watchertypes.WatcherResponse{Success: false, Error: err.Error()}
}

func toMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
