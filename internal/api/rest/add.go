package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// AddFile is one uploaded .torrent file.
type AddFile struct {
	Name string
	Data []byte
}

// AddRequest describes one submission to POST /torrents: a magnet link
// and/or .torrent files, plus the per-item metadata collected by the form.
type AddRequest struct {
	Magnet string
	Files  []AddFile

	MediaType    domain.MediaType
	Name         string
	Tags         []string
	Year         int
	Season       int
	Episode      int
	EpisodeTitle string
	Poster       string
	TMDBID       int64

	// CustomMetadata is a raw JSON object, opaque to this client beyond
	// being valid JSON. Empty means "{}".
	CustomMetadata string
}

func (r AddRequest) validate() error {
	if strings.TrimSpace(r.Magnet) == "" && len(r.Files) == 0 {
		return &domain.ValidationError{Field: "source", Err: errors.New("magnet url or torrent file required")}
	}
	if magnet := strings.TrimSpace(r.Magnet); magnet != "" {
		if _, err := metainfo.ParseMagnetUri(magnet); err != nil {
			return &domain.ValidationError{Field: "magnet", Err: err}
		}
	}
	for _, file := range r.Files {
		if _, err := metainfo.Load(bytes.NewReader(file.Data)); err != nil {
			return &domain.ValidationError{Field: "file", Err: err}
		}
	}
	if r.MediaType != "" && !r.MediaType.Valid() {
		return &domain.ValidationError{Field: "media_type", Err: errors.New("unknown media type " + string(r.MediaType))}
	}
	if _, err := r.customMetadataJSON(); err != nil {
		return err
	}
	return nil
}

func (r AddRequest) customMetadataJSON() (string, error) {
	raw := strings.TrimSpace(r.CustomMetadata)
	if raw == "" {
		return "{}", nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return "", &domain.ValidationError{Field: "custom_metadata", Err: err}
	}
	return raw, nil
}

// Add submits one or many torrent sources as multipart form data. The
// request is validated locally first: the magnet link and any .torrent
// files must parse, and custom metadata must be a JSON object.
func (c *Client) Add(ctx context.Context, req AddRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	customMetadata, err := req.customMetadataJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if magnet := strings.TrimSpace(req.Magnet); magnet != "" {
		if err := form.WriteField("source", magnet); err != nil {
			return &domain.TransportError{Op: "add", Err: err}
		}
	}
	for _, file := range req.Files {
		part, err := form.CreateFormFile("file", file.Name)
		if err != nil {
			return &domain.TransportError{Op: "add", Err: err}
		}
		if _, err := part.Write(file.Data); err != nil {
			return &domain.TransportError{Op: "add", Err: err}
		}
	}

	fields := map[string]string{
		"custom_metadata": customMetadata,
	}
	if req.MediaType != "" {
		fields["media_type"] = string(req.MediaType)
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if len(req.Tags) > 0 {
		tags, err := json.Marshal(req.Tags)
		if err != nil {
			return &domain.ValidationError{Field: "tags", Err: err}
		}
		fields["tags"] = string(tags)
	}
	if req.Year > 0 {
		fields["year"] = strconv.Itoa(req.Year)
	}
	if req.Poster != "" {
		fields["poster"] = req.Poster
	}
	if req.MediaType == domain.MediaEpisode || req.MediaType == domain.MediaTV {
		if req.Season > 0 {
			fields["season"] = strconv.Itoa(req.Season)
		}
		if req.Episode > 0 {
			fields["episode"] = strconv.Itoa(req.Episode)
		}
		if req.EpisodeTitle != "" {
			fields["episode_title"] = req.EpisodeTitle
		}
	}
	if req.TMDBID > 0 {
		fields["tmdb_id"] = strconv.FormatInt(req.TMDBID, 10)
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return &domain.TransportError{Op: "add", Err: err}
		}
	}
	if err := form.Close(); err != nil {
		return &domain.TransportError{Op: "add", Err: err}
	}

	return c.do(ctx, "add", http.MethodPost, "/torrents", nil, &buf, form.FormDataContentType(), nil)
}
