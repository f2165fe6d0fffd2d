package domain

import (
	"sort"
	"strconv"
)

// TorrentRecord is one torrent as reported by the backend, either from
// GET /torrents or inside a push snapshot. Wire names follow the backend API.
type TorrentRecord struct {
	ID             int64          `json:"id"`
	InfoHash       string         `json:"info_hash,omitempty"`
	Name           string         `json:"name"`
	CorrectName    string         `json:"correct_name,omitempty"`
	Poster         string         `json:"poster,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	MediaType      MediaType      `json:"media_type,omitempty"`
	CustomMetadata map[string]any `json:"custom_metadata,omitempty"`

	// Embedded live fields. The server may omit all of them; zero values
	// mean "unknown" and are resolved by the view projection.
	Progress int    `json:"progress,omitempty"`
	State    string `json:"state,omitempty"`
	DlSpeed  int64  `json:"dlspeed,omitempty"`
	ETA      *int64 `json:"eta,omitempty"`

	// Live carries per-connection telemetry piggybacked on the record.
	// It overrides the embedded fields for display.
	Live *LiveStats `json:"live,omitempty"`
}

// DisplayKey returns a stable key for rendering: the server id when
// assigned, otherwise the info hash.
func (r TorrentRecord) DisplayKey() string {
	if r.ID > 0 {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.InfoHash
}

// Title returns the user-corrected name when present, else the raw name.
func (r TorrentRecord) Title() string {
	if r.CorrectName != "" {
		return r.CorrectName
	}
	return r.Name
}

// SortByIDDesc orders records newest-first by server id. This is the only
// authoritative ordering of the torrent list; source order is discarded.
func SortByIDDesc(records []TorrentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
}
