// Package generate calls the moodboard generation endpoint.
//
// The endpoint takes a free-text vibe and a list of style tags and returns
// a moodboard in wire form. Any failure is reported with a generic
// user-facing message; the cause is kept for logs.
package generate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/moodmagic/moodmagic/pkg/errors"
	"github.com/moodmagic/moodmagic/pkg/httputil"
	"github.com/moodmagic/moodmagic/pkg/moodboard"
)

// Path is the generation route, relative to the endpoint base URL.
const Path = "/api/generate-moodboard"

// FailureMessage is shown to users for any generation failure.
const FailureMessage = "Failed to generate moodboard. Please try again."

// Request is the generation request body.
type Request struct {
	VibeText string   `json:"vibe_text"`
	Tags     []string `json:"tags"`
}

// Ready reports whether the request can be submitted: it needs a
// description or at least one tag.
func (r Request) Ready() bool {
	return strings.TrimSpace(r.VibeText) != "" || len(r.Tags) > 0
}

// Client calls a generation endpoint.
type Client struct {
	endpoint string
	http     *httputil.Client
	now      func() time.Time
}

// NewClient returns a client for the endpoint base URL.
func NewClient(endpoint string, hc *httputil.Client) *Client {
	if hc == nil {
		hc = httputil.NewClient(nil)
	}
	return &Client{endpoint: strings.TrimRight(endpoint, "/"), http: hc, now: time.Now}
}

// Generate posts req and decodes the returned moodboard. Missing
// description and tags are taken from req, and a missing creation time is
// set to now.
func (c *Client) Generate(ctx context.Context, req Request) (moodboard.Moodboard, error) {
	if !req.Ready() {
		return moodboard.Moodboard{}, errors.New(errors.ErrCodeInvalidInput, "describe your vibe or pick at least one tag")
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return moodboard.Moodboard{}, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	data, err := c.http.Post(ctx, c.endpoint+Path, "application/json", body)
	if err != nil {
		if ctx.Err() != nil {
			return moodboard.Moodboard{}, ctx.Err()
		}
		return moodboard.Moodboard{}, errors.Wrap(errors.ErrCodeGeneration, err, FailureMessage)
	}

	var w moodboard.Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return moodboard.Moodboard{}, errors.Wrap(errors.ErrCodeInvalidResponse, err, FailureMessage)
	}
	if w.Description == "" {
		w.Description = strings.TrimSpace(req.VibeText)
	}
	if len(w.Tags) == 0 {
		w.Tags = req.Tags
	}
	if w.CreatedAt == nil {
		now := c.now().UTC()
		w.CreatedAt = &now
	}

	mb, err := moodboard.FromWire(w)
	if err != nil {
		return moodboard.Moodboard{}, errors.Wrap(errors.ErrCodeInvalidResponse, err, FailureMessage)
	}
	return mb, nil
}
