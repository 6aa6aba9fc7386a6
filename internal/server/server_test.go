package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
	"github.com/moodmagic/moodmagic/pkg/pipeline"
	"github.com/moodmagic/moodmagic/pkg/render/sink"
	"github.com/moodmagic/moodmagic/pkg/surface"
)

type readyFaces struct{}

func (readyFaces) Load(context.Context, string) error { return nil }

type fakeRaster struct{ err error }

func (f fakeRaster) Rasterize(context.Context, *surface.Node) ([]image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []image.Image{image.NewRGBA(image.Rect(0, 0, 4, 4))}, nil
}

type fakeAssembler struct{}

func (fakeAssembler) Assemble([]image.Image, sink.Meta) ([]byte, error) {
	return []byte("%PDF-1.3 test"), nil
}

type fakeGenerator struct {
	mb  moodboard.Moodboard
	err error
}

func (f fakeGenerator) Generate(context.Context, generate.Request) (moodboard.Moodboard, error) {
	return f.mb, f.err
}

func testServer(t *testing.T, gen pipeline.Generator, opts ...Option) *Server {
	t.Helper()
	return New(pipeline.Config{
		FontBase:   "https://fonts.example.com",
		Generator:  gen,
		Faces:      readyFaces{},
		Rasterizer: fakeRaster{},
		Assembler:  fakeAssembler{},
		ProbeDelay: time.Millisecond,
	}, opts...)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, testServer(t, nil), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestStylesheet(t *testing.T) {
	s := testServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/fonts/stylesheet?heading=Playfair+Display&body=Inter", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp stylesheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := "https://fonts.example.com/css2?family=Playfair+Display:wght@400;700&family=Inter:wght@400;500;600&display=swap"
	if resp.URL != want {
		t.Errorf("URL = %q, want %q", resp.URL, want)
	}
	if !strings.HasPrefix(resp.Link, "<link ") {
		t.Errorf("Link = %q", resp.Link)
	}

	rec = do(t, s, http.MethodGet, "/api/fonts/stylesheet?heading=Inter", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing body font: status = %d", rec.Code)
	}
	if got := decodeError(t, rec).Error; got != errors.ErrCodeInvalidFont {
		t.Errorf("error code = %s", got)
	}
}

func TestGenerateBoard(t *testing.T) {
	mb := moodboard.Moodboard{
		Title:     "Salt Air",
		Palette:   moodboard.DefaultPalette,
		FontPairs: []moodboard.FontPair{moodboard.DefaultFontPair},
	}
	s := testServer(t, fakeGenerator{mb: mb})

	rec := do(t, s, http.MethodPost, "/api/moodboards", `{"vibe_text":"breezy","tags":["Coastal"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got, err := moodboard.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Salt Air" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestGenerateBoardFailure(t *testing.T) {
	gen := fakeGenerator{err: errors.New(errors.ErrCodeGeneration, generate.FailureMessage)}
	rec := do(t, testServer(t, gen), http.MethodPost, "/api/moodboards", `{"vibe_text":"x"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != errors.ErrCodeGeneration || resp.Message != generate.FailureMessage {
		t.Errorf("error = %+v", resp)
	}
}

func TestGenerateBoardBadBody(t *testing.T) {
	rec := do(t, testServer(t, fakeGenerator{}), http.MethodPost, "/api/moodboards", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExportBoard(t *testing.T) {
	body := `{"title":"Coastal Dream Home","color_palette":["#2C3E50"],"font_pairs":[{"heading":"Lora","body":"Inter"}]}`

	rec := do(t, testServer(t, nil), http.MethodPost, "/api/moodboards/export", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=coastal-dream-home.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestExportBoardFilenameOverride(t *testing.T) {
	rec := do(t, testServer(t, nil), http.MethodPost, "/api/moodboards/export?filename=board.pdf", `{"title":"Anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=board.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestExportBoardErrors(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
		target string
		body   string
		status int
		code   errors.Code
	}{
		{
			name:   "malformed json",
			server: testServer(t, nil),
			target: "/api/moodboards/export",
			body:   `{"title":`,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidResponse,
		},
		{
			name:   "bad color",
			server: testServer(t, nil),
			target: "/api/moodboards/export",
			body:   `{"color_palette":["blue"]}`,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidResponse,
		},
		{
			name: "rasterize failure",
			server: New(pipeline.Config{
				Faces:      readyFaces{},
				Rasterizer: fakeRaster{err: context.DeadlineExceeded},
				Assembler:  fakeAssembler{},
				ProbeDelay: time.Millisecond,
			}),
			target: "/api/moodboards/export",
			body:   `{"title":"x"}`,
			status: http.StatusInternalServerError,
			code:   errors.ErrCodeRasterize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, tt.server, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeError(t, rec).Error; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestOfflineMode(t *testing.T) {
	online := testServer(t, nil)
	if rec := do(t, online, http.MethodPost, "/api/generate-moodboard", `{"vibe_text":"x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("online fallback route status = %d, want 404", rec.Code)
	}

	s := New(pipeline.Config{
		Faces:      readyFaces{},
		Rasterizer: fakeRaster{},
		Assembler:  fakeAssembler{},
	}, WithOffline(true))

	rec := do(t, s, http.MethodPost, "/api/generate-moodboard", `{"vibe_text":"quiet dawn","tags":["Minimal"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	mb, err := moodboard.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(mb.Palette) != 3 || mb.Palette[0].Hex != "#EAE0D5" {
		t.Errorf("Palette = %+v", mb.Palette)
	}
	if mb.FontPair().Body != "Poppins" {
		t.Errorf("FontPair = %+v", mb.FontPair())
	}

	// generation through the pipeline uses the same content
	rec = do(t, s, http.MethodPost, "/api/moodboards", `{"vibe_text":"quiet dawn"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Simplicity Shaped by the Future") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := testServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
