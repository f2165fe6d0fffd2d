package domain

// LiveStats is transient telemetry for one torrent. All fields are optional;
// a nil field means "no live value, fall back to the persisted record".
type LiveStats struct {
	Progress *int    `json:"progress,omitempty"`
	State    *string `json:"state,omitempty"`
	DlSpeed  *int64  `json:"dlspeed,omitempty"`
	ETA      *int64  `json:"eta,omitempty"`
}
