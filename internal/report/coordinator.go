package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/insight"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/notify"
	"github.com/dukerupert/timeanalyzer/internal/observability"
	"github.com/dukerupert/timeanalyzer/internal/store"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

// WindowKey is the blob key of the last selected report window.
const WindowKey = "reportWindow"

// Source supplies the full activity history.
type Source interface {
	All() []model.Activity
}

// Renderer draws the charts of a refresh. Implementations own any state of
// previously drawn charts.
type Renderer interface {
	Render(ctx context.Context, charts Charts) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, charts Charts) error

func (f RendererFunc) Render(ctx context.Context, charts Charts) error { return f(ctx, charts) }

type NopRenderer struct{}

func (NopRenderer) Render(context.Context, Charts) error { return nil }

// Coordinator re-derives reports on demand and hands the chart series to the
// renderer. It holds no report state between refreshes.
type Coordinator struct {
	source        Source
	renderer      Renderer
	notifier      notify.Notifier
	clock         clock.Clock
	prefs         store.Blob
	defaultWindow window.Window
	logger        *slog.Logger
}

func NewCoordinator(source Source, renderer Renderer, notifier notify.Notifier, clk clock.Clock, prefs store.Blob, defaultWindow window.Window, logger *slog.Logger) *Coordinator {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Coordinator{
		source:        source,
		renderer:      renderer,
		notifier:      notifier,
		clock:         clk,
		prefs:         prefs,
		defaultWindow: window.Parse(string(defaultWindow)),
		logger:        logger,
	}
}

// Refresh builds the report for w and renders its charts. A renderer failure
// is logged; the report is still returned.
func (c *Coordinator) Refresh(ctx context.Context, w window.Window) Report {
	start := time.Now()
	rep := Build(c.source.All(), w, c.clock.Today())
	observability.ObserveRefresh(string(rep.Window), time.Since(start))
	for _, in := range rep.Insights {
		observability.RecordInsight(string(in.Severity))
	}

	if err := c.renderer.Render(ctx, rep.Charts); err != nil {
		c.logger.Warn("render charts", "window", rep.Window, "error", err)
	}
	return rep
}

// CurrentWindow returns the last selected window, or the default when none
// was saved.
func (c *Coordinator) CurrentWindow() window.Window {
	if c.prefs == nil {
		return c.defaultWindow
	}
	value, ok, err := c.prefs.Get(WindowKey)
	if err != nil {
		c.logger.Warn("read window preference", "error", err)
		return c.defaultWindow
	}
	if !ok {
		return c.defaultWindow
	}
	return window.Parse(value)
}

// SelectWindow remembers w as the current window and refreshes with it.
func (c *Coordinator) SelectWindow(ctx context.Context, w window.Window) Report {
	w = window.Parse(string(w))
	if c.prefs != nil {
		if err := c.prefs.Set(WindowKey, string(w)); err != nil {
			c.logger.Warn("save window preference", "window", w, "error", err)
		}
	}
	return c.Refresh(ctx, w)
}

// OnStoreChange refreshes with the current window. It is registered as the
// activity store's change callback.
func (c *Coordinator) OnStoreChange() {
	c.Refresh(context.Background(), c.CurrentWindow())
}

// Suggestions runs the long-horizon pattern rules over the whole history and
// forwards warnings to the notifier.
func (c *Coordinator) Suggestions(ctx context.Context) []insight.Insight {
	suggestions := insight.Suggest(c.source.All(), c.clock.Today())
	for _, s := range suggestions {
		if s.Severity != insight.SeverityWarning {
			continue
		}
		if err := c.notifier.Notify(s.Title, s.Description); err != nil {
			c.logger.Debug("notify suggestion", "title", s.Title, "error", err)
		}
	}
	return suggestions
}
