package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
)

// RemoteGateway drives the photo hub HTTP API. It authenticates every request
// with the configured bearer token and treats any non-2xx response as a plain
// failure for the store machinery to roll back on.
type RemoteGateway struct {
	client      *http.Client
	baseURL     string
	accessToken string
}

func NewRemoteGateway(client *http.Client, baseURL, accessToken string) *RemoteGateway {
	if client == nil {
		client = http.DefaultClient
	}

	return &RemoteGateway{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

func (g *RemoteGateway) ListPhotos(ctx context.Context, q PageQuery) ([]model.Photo, error) {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", string(q.Category))
	}
	if q.Sort != "" {
		values.Set("sort", string(q.Sort))
	}
	values.Set("page", strconv.Itoa(q.PageIndex+1))

	var payload struct {
		Items []model.Photo `json:"items"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/photos?"+values.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (g *RemoteGateway) ListLikedIDs(ctx context.Context) ([]string, error) {
	var payload struct {
		PhotoIDs []string `json:"photo_ids"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/likes", &payload); err != nil {
		return nil, err
	}
	return payload.PhotoIDs, nil
}

func (g *RemoteGateway) CreateLike(ctx context.Context, photoID string) error {
	return g.doJSON(ctx, http.MethodPut, "/photos/"+url.PathEscape(photoID)+"/like", nil)
}

func (g *RemoteGateway) DeleteLike(ctx context.Context, photoID string) error {
	return g.doJSON(ctx, http.MethodDelete, "/photos/"+url.PathEscape(photoID)+"/like", nil)
}

// DeleteMedia is a no-op over HTTP: the API couples the CDN destroy into the
// record delete and performs it first, so the ordering invariant holds
// server-side.
func (g *RemoteGateway) DeleteMedia(_ context.Context, _ string) error {
	return nil
}

func (g *RemoteGateway) DeletePhotoRecord(ctx context.Context, photoID string) error {
	return g.doJSON(ctx, http.MethodDelete, "/photos/"+url.PathEscape(photoID), nil)
}

func (g *RemoteGateway) doJSON(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrPhotoNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
