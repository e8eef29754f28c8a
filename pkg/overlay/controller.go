// Package overlay drives the hint modal: it extracts the problem, asks the
// relay for hints over a channel and renders the result into the page.
package overlay

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/channel"
)

// State is the modal's lifecycle position.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// UIState is everything Render needs.
type UIState struct {
	Status    State
	Message   string
	Panels    []models.HintPanel
	RequestID uint64
	Visible   bool
}

func (s UIState) clone() UIState {
	s.Panels = append([]models.HintPanel(nil), s.Panels...)
	return s
}

// Extractor is satisfied by *extractors.Registry.
type Extractor interface {
	Extract(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo
}

// MeasureFunc returns the expanded height of a panel in pixels.
type MeasureFunc func(p models.HintPanel) int

// EstimateHeight assumes 60 characters per 20px line plus padding.
func EstimateHeight(p models.HintPanel) int {
	return (len([]rune(p.Text))/60+1)*20 + 24
}

type Controller struct {
	logger      *slog.Logger
	extractor   Extractor
	channel     channel.Channel
	settleDelay time.Duration
	measure     MeasureFunc

	mu     sync.Mutex
	state  UIState
	latest uint64
}

func NewController(logger *slog.Logger, extractor Extractor, ch channel.Channel, settleDelay time.Duration) *Controller {
	return &Controller{
		logger:      logger,
		extractor:   extractor,
		channel:     ch,
		settleDelay: settleDelay,
		measure:     EstimateHeight,
	}
}

// WithMeasure replaces the panel height estimate.
func (c *Controller) WithMeasure(m MeasureFunc) *Controller {
	if m != nil {
		c.measure = m
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Trigger runs one hint request for the page and returns the resulting state.
// Every call starts over in Loading; if a later Trigger starts before this one
// finishes, this call's result is discarded and the newer state is returned.
func (c *Controller) Trigger(ctx context.Context, doc *goquery.Document, pageURL *url.URL) UIState {
	c.mu.Lock()
	c.latest++
	id := c.latest
	c.state = UIState{Status: Loading, RequestID: id, Visible: true}
	c.mu.Unlock()

	logger := c.logger.With("request_id", id)

	if c.settleDelay > 0 {
		timer := time.NewTimer(c.settleDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return c.apply(logger, id, UIState{Status: Error, Message: "Error: " + ctx.Err().Error()})
		}
	}

	info := c.extractor.Extract(doc, pageURL)
	if info == nil {
		logger.Info("no problem found on page", "url", urlString(pageURL))
		return c.apply(logger, id, UIState{Status: Error, Message: msgNoProblem})
	}

	resp, err := c.channel.Send(ctx, models.HintRequest{Action: models.ActionGetHints, ProblemInfo: info})
	if err != nil {
		logger.Warn("hint request not delivered", "error", err)
		return c.apply(logger, id, UIState{Status: Error, Message: "Error: " + err.Error()})
	}
	if !resp.Success {
		return c.apply(logger, id, UIState{Status: Error, Message: resp.Error})
	}

	panels := ParseHints(resp.Hints)
	st := UIState{Status: Success, Panels: panels}
	if len(panels) == 0 {
		st.Message = msgNoHints
	}
	logger.Debug("hints rendered", "platform", info.Platform, "panels", len(panels))
	return c.apply(logger, id, st)
}

// apply installs st if id is still the latest request.
func (c *Controller) apply(logger *slog.Logger, id uint64, st UIState) UIState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.latest {
		logger.Info("discarding stale hint response", "latest", c.latest)
		return c.state.clone()
	}
	st.RequestID = id
	st.Visible = c.state.Visible
	c.state = st
	return c.state.clone()
}

// Toggle flips the panel at position i (0-based). Opening records the
// measured height; closing clears it. It reports false for an unknown panel.
func (c *Controller) Toggle(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.state.Panels) {
		return false
	}
	p := &c.state.Panels[i]
	if p.Expanded {
		p.Expanded = false
		p.Height = 0
	} else {
		p.Expanded = true
		p.Height = c.measure(*p)
	}
	return true
}

// Close hides the modal. Its content is kept until the next Trigger.
func (c *Controller) Close() {
	c.mu.Lock()
	c.state.Visible = false
	c.mu.Unlock()
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
