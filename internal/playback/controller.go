// Package playback drives the timeline: a date pointer over an ordered list
// of date keys that can be advanced manually or by a ticker, wrapping back
// to the first date after the last.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// State is the controller's playback state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

var (
	// ErrNoDates is returned by Start when the controller has no dates.
	ErrNoDates = errors.New("playback: no dates loaded")

	// ErrUnknownDate is returned by Seek for a date outside the loaded list.
	ErrUnknownDate = errors.New("playback: date not in range")
)

// Controller holds the current position in a date sequence and owns at most
// one ticker goroutine. Starting playback always cancels the previous run
// first, so two tickers can never advance the pointer concurrently.
type Controller struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	logger zerolog.Logger

	dates []string
	index int
	state State
	stop  context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock substitutes the wall clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(ctrl *Controller) { ctrl.logger = l }
}

// New creates a stopped controller positioned at the first date.
func New(dates []string, opts ...Option) *Controller {
	c := &Controller{
		clock:  clockwork.NewRealClock(),
		logger: zerolog.Nop(),
		dates:  append([]string(nil), dates...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDates replaces the date list and resets the pointer to the first date.
// A running ticker keeps ticking over the new list.
func (c *Controller) SetDates(dates []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = append([]string(nil), dates...)
	c.index = 0
}

// Seek moves the pointer to the given date.
func (c *Controller) Seek(date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.dates {
		if d == date {
			c.index = i
			return nil
		}
	}
	return ErrUnknownDate
}

// Current returns the date under the pointer, or "" when no dates are loaded.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.dates) == 0 {
		return ""
	}
	return c.dates[c.index]
}

// State returns the playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins playback, advancing the pointer once per interval with
// wraparound. The returned channel emits the date after each advance and is
// closed when playback stops. Any previous run is cancelled before the new
// one starts.
func (c *Controller) Start(interval time.Duration) (<-chan string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.dates) == 0 {
		return nil, ErrNoDates
	}
	if c.stop != nil {
		c.stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	c.state = Playing

	out := make(chan string, 1)
	go c.run(ctx, interval, out)

	c.logger.Debug().Dur("interval", interval).Msg("playback started")
	return out, nil
}

func (c *Controller) run(ctx context.Context, interval time.Duration, out chan<- string) {
	ticker := c.clock.NewTicker(interval)
	// Stop the ticker before closing the channel so observers of the close
	// never race a still-registered ticker.
	defer close(out)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			date := c.advance()
			select {
			case out <- date:
			case <-ctx.Done():
				return
			}
		}
	}
}

// advance moves the pointer one step, wrapping at the end.
func (c *Controller) advance() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.dates) == 0 {
		return ""
	}
	c.index = (c.index + 1) % len(c.dates)
	return c.dates[c.index]
}

// Stop halts playback. The pointer keeps its position.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.state = Stopped
}

// Close stops playback and releases the ticker goroutine. Safe to call more
// than once.
func (c *Controller) Close() {
	c.Stop()
}
