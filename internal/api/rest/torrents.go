package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// List fetches every torrent known to the backend. The result order is
// whatever the server sent; callers own sorting.
func (c *Client) List(ctx context.Context) ([]domain.TorrentRecord, error) {
	var records []domain.TorrentRecord
	if err := c.do(ctx, "list", http.MethodGet, "/torrents", nil, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Stop asks the backend to stop the torrent with the given id. The updated
// state arrives later through a push snapshot, not in this response.
func (c *Client) Stop(ctx context.Context, id int64, token string) error {
	return c.do(ctx, "stop", http.MethodPost, torrentPath(id, "stop"), tokenQuery(token), nil, "", nil)
}

// Resume asks the backend to resume the torrent with the given id.
func (c *Client) Resume(ctx context.Context, id int64, token string) error {
	return c.do(ctx, "resume", http.MethodPost, torrentPath(id, "resume"), tokenQuery(token), nil, "", nil)
}

// Delete removes the torrent with the given id.
func (c *Client) Delete(ctx context.Context, id int64, token string) error {
	return c.do(ctx, "delete", http.MethodDelete, torrentPath(id, ""), tokenQuery(token), nil, "", nil)
}

// Update applies a partial update to the torrent with the given id.
func (c *Client) Update(ctx context.Context, id int64, patch map[string]any, token string) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return &domain.ValidationError{Field: "patch", Err: err}
	}
	return c.do(ctx, "update", http.MethodPatch, torrentPath(id, ""), tokenQuery(token), bytes.NewReader(body), "application/json", nil)
}
