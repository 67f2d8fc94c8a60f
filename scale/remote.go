package scale

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/shape"
)

// SharpSubstitute stands in for '#' in URL paths, where '#' would start a
// fragment.
const SharpSubstitute = "s"

// Remote asks a scale service which positions belong to a key and how each
// one is spelled.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

func NewRemote(baseURL string) *Remote {
	return &Remote{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// EncodeRoot makes a root name safe for use as a path segment.
func EncodeRoot(root string) string {
	return url.PathEscape(strings.ReplaceAll(root, "#", SharpSubstitute))
}

// DecodeRoot reverses EncodeRoot after the router has unescaped the segment.
func DecodeRoot(segment string) string {
	return strings.ReplaceAll(segment, SharpSubstitute, "#")
}

func (r *Remote) URL(q Query) string {
	u := fmt.Sprintf("%s/api/scale/%s/%s", r.BaseURL, EncodeRoot(q.Root), url.PathEscape(string(q.Quality)))
	if q.ShapeID != "" && q.ShapeID != shape.AllID {
		u += "/shape/" + url.PathEscape(q.ShapeID)
	}
	return u
}

func (r *Remote) Resolve(ctx context.Context, q Query) (Result, error) {
	if !q.Selected() {
		return newResult(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(q), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build scale request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("scale request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("scale request: unexpected status %d", resp.StatusCode)
	}

	var body model.ScaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decode scale response: %w", err)
	}
	if body.Positions == nil {
		return Result{}, fmt.Errorf("decode scale response: missing positions")
	}
	return FromResponse(body), nil
}
