package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
)

// validMagnet is a syntactically valid magnet link for add-request tests.
const validMagnet = "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=test"

// validTorrentFile is a minimal bencoded metainfo document.
var validTorrentFile = []byte("d4:infod6:lengthi0e4:name1:x12:piece lengthi16384e6:pieces0:ee")

type capturedRequest struct {
	method string
	path   string
	query  map[string]string
	body   []byte
}

// newTestClient starts a server answering with status and body, and returns
// a client pointed at it plus a place the last request is recorded.
func newTestClient(t *testing.T, status int, body string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = map[string]string{}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				captured.query[key] = values[0]
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}), captured
}

func TestListDecodesRecords(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `[{"id":3,"name":"three"},{"id":1,"name":"one"}]`)

	records, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if captured.method != http.MethodGet || captured.path != "/torrents" {
		t.Fatalf("request = %s %s", captured.method, captured.path)
	}
	if len(records) != 2 || records[0].ID != 3 || records[1].Name != "one" {
		t.Fatalf("records = %+v", records)
	}
}

func TestListTransportErrorOnServerFailure(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError, "")

	_, err := client.List(context.Background())
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if transportErr.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d", transportErr.Status)
	}
}

func TestListTransportErrorOnBadJSON(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, "{not json")

	_, err := client.List(context.Background())
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestStopSendsTokenAndPath(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, "")

	if err := client.Stop(context.Background(), 42, "secret"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if captured.method != http.MethodPost || captured.path != "/api/torrents/42/stop" {
		t.Fatalf("request = %s %s", captured.method, captured.path)
	}
	if captured.query["token"] != "secret" {
		t.Fatalf("token = %q", captured.query["token"])
	}
}

func TestResumeSendsTokenAndPath(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, "")

	if err := client.Resume(context.Background(), 7, "secret"); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if captured.method != http.MethodPost || captured.path != "/api/torrents/7/resume" {
		t.Fatalf("request = %s %s", captured.method, captured.path)
	}
}

func TestDeleteSendsTokenAndPath(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, "")

	if err := client.Delete(context.Background(), 7, "secret"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if captured.method != http.MethodDelete || captured.path != "/api/torrents/7" {
		t.Fatalf("request = %s %s", captured.method, captured.path)
	}
	if captured.query["token"] != "secret" {
		t.Fatalf("token = %q", captured.query["token"])
	}
}

func TestDeleteNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, "")

	err := client.Delete(context.Background(), 7, "secret")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSendsJSONPatch(t *testing.T) {
	var patch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Errorf("decode patch: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Update(context.Background(), 9, map[string]any{"correct_name": "Fixed"}, "secret")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if patch["correct_name"] != "Fixed" {
		t.Fatalf("patch = %v", patch)
	}
}

func TestLoginPostsFormAndReadsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "hunter2" {
			t.Errorf("form = %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	token, err := client.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q", token)
	}
}

func TestLoginAcceptsAccessTokenField(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"access_token":"tok-2"}`)

	token, err := client.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-2" {
		t.Fatalf("token = %q", token)
	}
}

func TestLoginRejectsMissingToken(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{}`)

	if _, err := client.Login(context.Background(), "alice", "hunter2"); err == nil {
		t.Fatal("expected error for response without token")
	}
}

func TestRegisterPostsJSON(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if err := client.Register(context.Background(), "bob", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if body["username"] != "bob" {
		t.Fatalf("body = %v", body)
	}
}

func TestSearchMediaParams(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"results":[{"id":1,"title":"Dune","year":2021}]}`)

	results, err := client.SearchMedia(context.Background(), MediaSearchQuery{
		Query:     "dune",
		MediaType: domain.MediaMovie,
		Year:      2021,
		Season:    2, // must not be sent for movies
	})
	if err != nil {
		t.Fatalf("SearchMedia: %v", err)
	}
	if captured.path != "/search_media" {
		t.Fatalf("path = %s", captured.path)
	}
	if captured.query["query"] != "dune" || captured.query["media_type"] != "movie" || captured.query["year"] != "2021" {
		t.Fatalf("query = %v", captured.query)
	}
	if _, ok := captured.query["season"]; ok {
		t.Fatal("season must not be sent for movie search")
	}
	if len(results) != 1 || results[0].DisplayTitle() != "Dune" {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearchMediaEpisodeSendsSeasonEpisode(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"results":[]}`)

	_, err := client.SearchMedia(context.Background(), MediaSearchQuery{
		Query:     "severance",
		MediaType: domain.MediaEpisode,
		Season:    2,
		Episode:   4,
	})
	if err != nil {
		t.Fatalf("SearchMedia: %v", err)
	}
	if captured.query["season"] != "2" || captured.query["episode"] != "4" {
		t.Fatalf("query = %v", captured.query)
	}
}

func TestSearchMediaRejectsUnsupportedType(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"results":[]}`)

	_, err := client.SearchMedia(context.Background(), MediaSearchQuery{Query: "x", MediaType: domain.MediaMusic})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestAddSendsMultipartForm(t *testing.T) {
	var fields map[string]string
	var fileNames []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		fields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		for _, file := range r.MultipartForm.File["file"] {
			fileNames = append(fileNames, file.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Add(context.Background(), AddRequest{
		Magnet:         validMagnet,
		Files:          []AddFile{{Name: "show.torrent", Data: validTorrentFile}},
		MediaType:      domain.MediaEpisode,
		Name:           "Severance",
		Tags:           []string{"tv", "drama"},
		Season:         2,
		Episode:        4,
		EpisodeTitle:   "Woe's Hollow",
		Year:           2025,
		TMDBID:         95396,
		CustomMetadata: `{"quality":"1080p"}`,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if fields["source"] != validMagnet {
		t.Fatalf("source = %q", fields["source"])
	}
	if fields["media_type"] != "episode" || fields["name"] != "Severance" {
		t.Fatalf("fields = %v", fields)
	}
	if fields["tags"] != `["tv","drama"]` {
		t.Fatalf("tags = %q", fields["tags"])
	}
	if fields["season"] != "2" || fields["episode"] != "4" || fields["episode_title"] != "Woe's Hollow" {
		t.Fatalf("episode fields = %v", fields)
	}
	if fields["tmdb_id"] != "95396" || fields["year"] != "2025" {
		t.Fatalf("fields = %v", fields)
	}
	if fields["custom_metadata"] != `{"quality":"1080p"}` {
		t.Fatalf("custom_metadata = %q", fields["custom_metadata"])
	}
	if len(fileNames) != 1 || fileNames[0] != "show.torrent" {
		t.Fatalf("files = %v", fileNames)
	}
}

func TestAddDefaultsCustomMetadata(t *testing.T) {
	var customMetadata string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		customMetadata = r.FormValue("custom_metadata")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if err := client.Add(context.Background(), AddRequest{Magnet: validMagnet}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if customMetadata != "{}" {
		t.Fatalf("custom_metadata = %q, want {}", customMetadata)
	}
}

func TestAddValidation(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.invalid"})

	tests := []struct {
		name string
		req  AddRequest
	}{
		{"no source", AddRequest{}},
		{"bad magnet", AddRequest{Magnet: "magnet:?xt=urn:btih:nothex"}},
		{"bad torrent file", AddRequest{Files: []AddFile{{Name: "x.torrent", Data: []byte("not bencode")}}}},
		{"bad media type", AddRequest{Magnet: validMagnet, MediaType: "podcast"}},
		{"bad custom metadata", AddRequest{Magnet: validMagnet, CustomMetadata: "{broken"}},
	}
	for _, tc := range tests {
		err := client.Add(context.Background(), tc.req)
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: err = %v, want ValidationError", tc.name, err)
		}
	}
}
