// Package view derives per-torrent display state from the authoritative
// record and any transient live telemetry.
package view

import (
	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

const defaultState = "idle"

// ItemState is the fully resolved display state for one torrent.
type ItemState struct {
	ID       int64  `json:"id"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Poster   string `json:"poster,omitempty"`
	Progress int    `json:"progress"`
	State    string `json:"state"`
	DlSpeed  int64  `json:"dlspeed"`
	Speed    string `json:"speed"`
	ETA      string `json:"eta"`
}

// Project resolves display fields with three-tier precedence: live telemetry
// first, then the record's embedded fields, then hard defaults
// (progress 0, state "idle", speed 0, eta unknown).
func Project(record domain.TorrentRecord, live *domain.LiveStats) ItemState {
	progress := record.Progress
	state := record.State
	speed := record.DlSpeed
	eta := record.ETA

	if live != nil {
		if live.Progress != nil {
			progress = *live.Progress
		}
		if live.State != nil {
			state = *live.State
		}
		if live.DlSpeed != nil {
			speed = *live.DlSpeed
		}
		if live.ETA != nil {
			eta = live.ETA
		}
	}
	if state == "" {
		state = defaultState
	}

	return ItemState{
		ID:       record.ID,
		Key:      record.DisplayKey(),
		Title:    record.Title(),
		Poster:   record.Poster,
		Progress: ClampProgress(progress),
		State:    state,
		DlSpeed:  speed,
		Speed:    FormatSpeed(speed),
		ETA:      FormatETA(eta),
	}
}

// ProjectAll projects every record, using external telemetry from live when
// present for an id and the record's own piggybacked telemetry otherwise.
func ProjectAll(records []domain.TorrentRecord, live map[int64]domain.LiveStats) []ItemState {
	items := make([]ItemState, 0, len(records))
	for _, record := range records {
		stats := record.Live
		if external, ok := live[record.ID]; ok {
			stats = &external
		}
		items = append(items, Project(record, stats))
	}
	return items
}

// ClampProgress clamps a server-reported progress value to [0,100].
// The clamp happens at presentation time regardless of what the server sent.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
