package fonts

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

type fakeFaces struct {
	mu     sync.Mutex
	loaded []string
	block  chan struct{}
	err    error
}

func (f *fakeFaces) Load(ctx context.Context, family string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.loaded = append(f.loaded, family)
	f.mu.Unlock()
	return f.err
}

func (f *fakeFaces) families() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.loaded)
	slices.Sort(out)
	return out
}

func newTestProvisioner(doc *surface.Document, faces FaceSet) *Provisioner {
	p := NewProvisioner(doc, faces, nil)
	p.ProbeDelay = time.Millisecond
	p.Grace = 10 * time.Millisecond
	return p
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

var (
	lora     = moodboard.FontPair{Heading: "Lora", Body: "Inter"}
	playfair = moodboard.FontPair{Heading: "Playfair Display", Body: "Poppins"}
)

func TestProvision_Empty(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, nil)

	if got := p.Provision(context.Background(), nil); got != NotRequested {
		t.Errorf("Provision(nil) = %v, want NotRequested", got)
	}
	if got := p.State(); got != NotRequested {
		t.Errorf("State() = %v, want NotRequested", got)
	}
	if n := len(doc.Stylesheets()); n != 0 {
		t.Errorf("links = %d, want 0", n)
	}
	if got := p.Wait(waitCtx(t)); got != NotRequested {
		t.Errorf("Wait() = %v, want NotRequested", got)
	}
}

func TestProvision_InvalidPair(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, nil)

	got := p.Provision(context.Background(), []moodboard.FontPair{{Heading: "", Body: "Inter"}})
	if got != NotRequested || len(doc.Stylesheets()) != 0 {
		t.Errorf("Provision(blank heading) = %v with %d links", got, len(doc.Stylesheets()))
	}
}

func TestProvision_LoadsBothFamilies(t *testing.T) {
	doc := surface.NewDocument()
	faces := &fakeFaces{}
	p := newTestProvisioner(doc, faces)

	if got := p.Provision(context.Background(), []moodboard.FontPair{lora, playfair}); got != Requesting {
		t.Fatalf("Provision() = %v, want Requesting", got)
	}
	if got := p.Wait(waitCtx(t)); got != Loaded {
		t.Fatalf("Wait() = %v, want Loaded", got)
	}
	if got := faces.families(); !slices.Equal(got, []string{"Inter", "Lora"}) {
		t.Errorf("loaded families = %v, want only the first pair", got)
	}
	links := doc.Stylesheets()
	if len(links) != 1 || links[0].Href != StylesheetURL(DefaultBase, lora) {
		t.Errorf("links = %v", links)
	}
}

func TestProvision_LoadFailureDegrades(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, &fakeFaces{err: errors.New("offline")})

	p.Provision(context.Background(), []moodboard.FontPair{lora})
	if got := p.Wait(waitCtx(t)); got != Loaded {
		t.Errorf("Wait() = %v, want Loaded after a failed probe", got)
	}
}

func TestProvision_GraceFallback(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, nil)

	start := time.Now()
	p.Provision(context.Background(), []moodboard.FontPair{lora})
	if got := p.Wait(waitCtx(t)); got != Loaded {
		t.Fatalf("Wait() = %v, want Loaded", got)
	}
	if elapsed := time.Since(start); elapsed < p.Grace {
		t.Errorf("settled after %v, before the grace delay %v", elapsed, p.Grace)
	}
}

func TestProvision_ReplacesPreviousLink(t *testing.T) {
	doc := surface.NewDocument()
	faces := &fakeFaces{block: make(chan struct{})}
	p := newTestProvisioner(doc, faces)
	ctx := context.Background()

	p.Provision(ctx, []moodboard.FontPair{lora})
	if n := len(doc.Stylesheets()); n != 1 {
		t.Fatalf("links after first call = %d, want 1", n)
	}

	p.Provision(ctx, []moodboard.FontPair{playfair})
	links := doc.Stylesheets()
	if len(links) != 1 {
		t.Fatalf("links after second call = %d, want 1", len(links))
	}
	if links[0].Href != StylesheetURL(DefaultBase, playfair) {
		t.Errorf("href = %q, want the second pair", links[0].Href)
	}

	close(faces.block)
	if got := p.Wait(waitCtx(t)); got != Loaded {
		t.Errorf("Wait() = %v, want Loaded", got)
	}
	if n := len(doc.Stylesheets()); n != 1 {
		t.Errorf("links after settle = %d, want 1", n)
	}
}

func TestTeardown_BeforeReady(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, nil)
	p.Grace = 20 * time.Millisecond

	p.Provision(context.Background(), []moodboard.FontPair{lora})
	p.Teardown()

	if n := len(doc.Stylesheets()); n != 0 {
		t.Errorf("links after teardown = %d, want 0", n)
	}
	if got := p.State(); got != Abandoned {
		t.Errorf("State() = %v, want Abandoned", got)
	}

	time.Sleep(5 * p.Grace)
	if got := p.State(); got != Abandoned {
		t.Errorf("State() after grace = %v, want Abandoned (no late transition)", got)
	}
	if got := p.Wait(waitCtx(t)); got != Abandoned {
		t.Errorf("Wait() = %v, want Abandoned", got)
	}
}

func TestTeardown_Idempotent(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, nil)

	p.Teardown()
	p.Teardown()
	if got := p.State(); got != NotRequested {
		t.Errorf("State() = %v, want NotRequested", got)
	}

	other := doc.AddStylesheet("https://example.com/other.css")
	p.Provision(context.Background(), []moodboard.FontPair{lora})
	p.Teardown()
	p.Teardown()

	links := doc.Stylesheets()
	if len(links) != 1 || links[0].ID != other {
		t.Errorf("teardown must only remove its own link: %v", links)
	}
}

func TestProvision_ScopeCancelTearsDown(t *testing.T) {
	doc := surface.NewDocument()
	p := newTestProvisioner(doc, &fakeFaces{block: make(chan struct{})})

	ctx, cancel := context.WithCancel(context.Background())
	p.Provision(ctx, []moodboard.FontPair{lora})
	cancel()

	if got := p.Wait(waitCtx(t)); got != Abandoned {
		t.Errorf("Wait() = %v, want Abandoned", got)
	}
	if n := len(doc.Stylesheets()); n != 0 {
		t.Errorf("links = %d, want 0", n)
	}
}

func TestStateString(t *testing.T) {
	if Loaded.String() != "loaded" || State(9).String() != "unknown" {
		t.Error("unexpected State.String output")
	}
}
