package shipping

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
	"github.com/FagneAlmeida/e-turboost.site/pkg/debounce"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateReady   State = "READY"
	StateFailed  State = "FAILED"
)

var (
	ErrNoOptions        = errors.New("no shipping options to select from")
	ErrOptionOutOfRange = errors.New("shipping option index out of range")
)

// QuoteFunc fetches shipping options for a destination and cart contents.
type QuoteFunc func(ctx context.Context, postalCode string, lines []domain.CartLine) ([]domain.ShippingOption, error)

// Snapshot is a point-in-time copy of the engine's displayed state.
type Snapshot struct {
	State       State
	Destination string
	Options     []domain.ShippingOption
	Selected    *domain.ShippingOption
	LastError   string
}

// Engine drives the quote lifecycle: Idle -> Loading -> Ready|Failed. Each
// issued request carries a generation number; only the response matching the
// latest generation may update state, so out-of-order responses from
// superseded requests are discarded. Destination edits are debounced before
// a request fires.
type Engine struct {
	quote    QuoteFunc
	debounce *debounce.Debouncer
	timeout  time.Duration

	mu          sync.Mutex
	gen         uint64
	state       State
	destination string
	items       []domain.CartLine
	options     []domain.ShippingOption
	selected    *domain.ShippingOption
	lastErr     string
}

func NewEngine(quote QuoteFunc, debounceDelay time.Duration) *Engine {
	return &Engine{
		quote:    quote,
		debounce: debounce.New(debounceDelay),
		timeout:  10 * time.Second,
		state:    StateIdle,
	}
}

// SetDestination records a destination edit. The prior selection is
// invalidated immediately; the quote request itself fires only after the
// debounce delay passes without another edit.
func (e *Engine) SetDestination(postalCode string, items []domain.CartLine) {
	e.mu.Lock()
	e.destination = postalCode
	e.items = domain.CloneLines(items)
	e.selected = nil
	e.mu.Unlock()

	e.debounce.Trigger(func() { e.Refresh() })
}

// Refresh issues a quote request for the current destination right away,
// superseding any request still in flight. The returned channel closes when
// this request has been applied or discarded, which callers may use to wait
// for a result.
func (e *Engine) Refresh() <-chan struct{} {
	done := make(chan struct{})

	e.mu.Lock()
	if e.destination == "" {
		e.state = StateIdle
		e.mu.Unlock()
		close(done)
		return done
	}
	e.gen++
	gen := e.gen
	e.state = StateLoading
	e.lastErr = ""
	dest := e.destination
	items := domain.CloneLines(e.items)
	e.mu.Unlock()

	go e.run(gen, dest, items, done)
	return done
}

func (e *Engine) run(gen uint64, dest string, items []domain.CartLine, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	options, err := e.quote(ctx, dest, items)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		// Superseded while in flight; a newer request owns the display.
		return
	}
	if err != nil {
		e.state = StateFailed
		e.lastErr = err.Error()
		e.options = nil
		return
	}
	e.state = StateReady
	e.options = options
}

// Select marks one of the quoted options as chosen. Pure state update, no
// network effect.
func (e *Engine) Select(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady || len(e.options) == 0 {
		return ErrNoOptions
	}
	if index < 0 || index >= len(e.options) {
		return ErrOptionOutOfRange
	}
	option := e.options[index]
	e.selected = &option
	return nil
}

// Selected returns a copy of the chosen option, or nil when none is chosen.
func (e *Engine) Selected() *domain.ShippingOption {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == nil {
		return nil
	}
	option := *e.selected
	return &option
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		State:       e.state,
		Destination: e.destination,
		Options:     append([]domain.ShippingOption(nil), e.options...),
		LastError:   e.lastErr,
	}
	if e.selected != nil {
		option := *e.selected
		snap.Selected = &option
	}
	return snap
}

// Stop cancels a pending debounced request.
func (e *Engine) Stop() {
	e.debounce.Cancel()
}
