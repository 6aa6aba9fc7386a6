package fonts

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/observability"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

// State is the load state of a provisioning attempt.
type State int

const (
	NotRequested State = iota
	Requesting
	Loaded
	Abandoned
)

var stateNames = [...]string{"not-requested", "requesting", "loaded", "abandoned"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

const (
	// DefaultProbeDelay is the wait between registering a stylesheet and
	// probing its families.
	DefaultProbeDelay = 100 * time.Millisecond

	// DefaultGrace is how long a provisioner without a FaceSet waits before
	// reporting Loaded. It is a heuristic, not a guarantee.
	DefaultGrace = time.Second
)

// FaceSet loads a font family so that it is available for rendering.
type FaceSet interface {
	Load(ctx context.Context, family string) error
}

// Provisioner owns at most one stylesheet link in a registry and tracks
// whether its families have loaded. Calls to Provision replace the previous
// registration. A Provisioner is safe for concurrent use, but callers
// should not overlap Provision calls for the same scope.
type Provisioner struct {
	Base       string
	ProbeDelay time.Duration
	Grace      time.Duration

	reg    surface.Registry
	faces  FaceSet
	logger *log.Logger

	mu      sync.Mutex
	gen     uint64
	state   State
	link    surface.LinkID
	linked  bool
	cancel  context.CancelFunc
	stop    func() bool
	settled chan struct{}
	pair    moodboard.FontPair
	started time.Time
}

// NewProvisioner returns a provisioner registering links in reg. With a nil
// faces, readiness falls back to the grace delay.
func NewProvisioner(reg surface.Registry, faces FaceSet, logger *log.Logger) *Provisioner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Provisioner{
		Base:       DefaultBase,
		ProbeDelay: DefaultProbeDelay,
		Grace:      DefaultGrace,
		reg:        reg,
		faces:      faces,
		logger:     logger,
	}
}

// Provision tears down any previous attempt and starts provisioning the
// first pair. Extra pairs are ignored. Empty input, or a first pair with a
// blank or unusable name, registers nothing and reports NotRequested.
//
// The probe runs in the background; use State or Wait to observe it.
// Cancelling ctx tears the attempt down.
func (p *Provisioner) Provision(ctx context.Context, pairs []moodboard.FontPair) State {
	p.Teardown()

	if len(pairs) == 0 {
		return NotRequested
	}
	pair := pairs[0]
	if err := pair.Validate(); err != nil {
		p.logger.Debug("skipping font pair", "heading", pair.Heading, "body", pair.Body, "error", err)
		return NotRequested
	}

	href := StylesheetURL(p.Base, pair)
	pctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.link = p.reg.AddStylesheet(href)
	p.linked = true
	p.state = Requesting
	p.cancel = cancel
	p.settled = make(chan struct{})
	p.pair = pair
	p.started = time.Now()
	p.stop = context.AfterFunc(ctx, func() { p.teardown(gen) })
	p.mu.Unlock()

	observability.Font().OnProvisionStart(ctx, pair.Heading, pair.Body)
	p.logger.Debug("registered font stylesheet", "href", href)

	go p.probe(pctx, gen, pair)
	return Requesting
}

// State returns the state of the current attempt.
func (p *Provisioner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until the current attempt settles or ctx is done, and
// returns the state at that point.
func (p *Provisioner) Wait(ctx context.Context) State {
	p.mu.Lock()
	ch := p.settled
	p.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
		}
	}
	return p.State()
}

// Teardown cancels a pending probe and removes the registered link. It is
// idempotent and safe to call before anything was provisioned. An attempt
// that had not loaded becomes Abandoned.
func (p *Provisioner) Teardown() {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	p.teardown(gen)
}

func (p *Provisioner) teardown(gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
	if p.linked {
		p.reg.RemoveStylesheet(p.link)
		p.linked = false
	}
	abandoned := p.state == Requesting
	if abandoned {
		p.state = Abandoned
		close(p.settled)
	}
	pair, elapsed := p.pair, time.Since(p.started)
	p.mu.Unlock()

	if abandoned {
		observability.Font().OnProvisionSettled(context.Background(), pair.Heading, pair.Body, Abandoned.String(), elapsed)
		p.logger.Debug("font provisioning abandoned", "heading", pair.Heading, "body", pair.Body)
	}
}

func (p *Provisioner) probe(ctx context.Context, gen uint64, pair moodboard.FontPair) {
	start := time.Now()
	if !sleep(ctx, p.ProbeDelay) {
		return
	}

	if p.faces == nil {
		if !sleep(ctx, p.Grace) {
			return
		}
	} else {
		var g errgroup.Group
		for _, family := range []string{pair.Heading, pair.Body} {
			family := family
			g.Go(func() error { return p.faces.Load(ctx, family) })
		}
		if err := g.Wait(); err != nil {
			p.logger.Debug("font probe failed, using fallback faces", "error", err)
		}
		if ctx.Err() != nil {
			return
		}
	}

	if p.settle(gen, Loaded) {
		observability.Font().OnProvisionSettled(ctx, pair.Heading, pair.Body, Loaded.String(), time.Since(start))
		p.logger.Debug("fonts ready", "heading", pair.Heading, "body", pair.Body)
	}
}

func (p *Provisioner) settle(gen uint64, s State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.state != Requesting {
		return false
	}
	p.state = s
	close(p.settled)
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
