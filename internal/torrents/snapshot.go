package torrents

import (
	"encoding/json"
	"errors"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// snapshotMessageType is the only inbound message type this layer acts on.
// A snapshot carries the complete torrent list, never a delta.
const snapshotMessageType = "torrents_snapshot"

type pushMessage struct {
	Type     string                 `json:"type"`
	Torrents []domain.TorrentRecord `json:"torrents"`
}

// errIgnoredMessage marks a well-formed message of a foreign type.
var errIgnoredMessage = errors.New("ignored message type")

// decodeSnapshot parses one inbound push message. Malformed payloads come
// back as *domain.ParseError; messages of another type as errIgnoredMessage.
// A snapshot with a null or empty torrents array is a valid empty state.
func decodeSnapshot(data []byte) ([]domain.TorrentRecord, error) {
	var msg pushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	if msg.Type != snapshotMessageType {
		return nil, errIgnoredMessage
	}
	if msg.Torrents == nil {
		return []domain.TorrentRecord{}, nil
	}
	return msg.Torrents, nil
}
