package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/moodmagic/moodmagic/pkg/buildinfo"
	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/export"
	"github.com/moodmagic/moodmagic/pkg/fonts"
	"github.com/moodmagic/moodmagic/pkg/generate"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

type stylesheetResponse struct {
	URL  string `json:"url"`
	Link string `json:"link"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) stylesheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pair, err := moodboard.NewFontPair(q.Get("heading"), q.Get("body"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stylesheetResponse{
		URL:  fonts.StylesheetURL(s.base.FontBase, pair),
		Link: fonts.LinkTag(s.base.FontBase, []moodboard.FontPair{pair}),
	})
}

// generateBoard runs a generation and returns the board in wire form.
func (s *Server) generateBoard(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctrl := s.controller()
	defer ctrl.Close()

	mb, err := ctrl.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moodboard.ToWire(mb))
}

// exportBoard renders the posted board and streams the PDF back. The
// optional filename query parameter overrides the derived name.
func (s *Server) exportBoard(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	mb, err := moodboard.Decode(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	ctrl := s.controller()
	defer ctrl.Close()

	ctrl.Set(mb)
	if _, err := ctrl.Render(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	state := ctrl.WaitFonts(ctx)
	s.logger.Debug("fonts settled", "state", state, "title", mb.Title)

	opts := export.OptionsFor(mb)
	if name := strings.TrimSpace(r.URL.Query().Get("filename")); name != "" {
		opts.Filename = name
	}
	if err := ctrl.ExportWith(ctx, export.ResponseSaver{W: w}, opts); err != nil {
		if errors.Is(err, errors.ErrCodeSave) {
			// headers are already out
			s.logger.Warn("export response failed", "error", err)
			return
		}
		s.writeError(w, r, err)
	}
}

// fallbackBoard answers like the generation backend with fixed content.
func (s *Server) fallbackBoard(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generate.Fallback(req))
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFont, errors.ErrCodeInvalidColor, errors.ErrCodeInvalidResponse:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSurfaceNotFound:
		return http.StatusNotFound
	case errors.ErrCodeGeneration, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
