package websocket

import (
	"context"

	"github.com/dukerupert/timeanalyzer/internal/report"
)

// Renderer pushes chart series to connected dashboards, which redraw their
// charts from scratch on every message.
type Renderer struct {
	hub *Hub
}

func NewRenderer(hub *Hub) *Renderer {
	return &Renderer{hub: hub}
}

func (r *Renderer) Render(_ context.Context, charts report.Charts) error {
	r.hub.Publish(NewMessage("report", "refreshed", 0, map[string]any{
		"window": charts.Window,
		"charts": charts,
	}))
	return nil
}
