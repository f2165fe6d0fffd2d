package apihttp

import (
	"encoding/json"
	"net/http"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
	"github.com/Akshay-Kumar/organizerr-client/internal/torrents"
	"github.com/Akshay-Kumar/organizerr-client/internal/view"
)

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type viewResponse struct {
	Connection torrents.ConnState `json:"connection"`
	Items      []view.ItemState   `json:"items"`
}

type torrentsResponse struct {
	Torrents []domain.TorrentRecord `json:"torrents"`
}

type healthResponse struct {
	Status     string             `json:"status"`
	Connection torrents.ConnState `json:"connection"`
	Torrents   int                `json:"torrents"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Connection: s.sync.ConnState(),
		Items:      view.ProjectAll(s.sync.View(), s.sync.LiveStats()),
	})
}

func (s *Server) handleTorrents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, torrentsResponse{Torrents: s.sync.View()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Connection: s.sync.ConnState(),
		Torrents:   len(s.sync.View()),
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorPayload{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
