// Package testutil provides a fake Azure OpenAI Assistants server covering
// the slice of the API the extraction pipeline calls.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// FakeAssistant is an in-memory Assistants API. Zero value behavior: no
// pre-existing assistants, batches and runs complete immediately, and every
// ListMessages call answers with the next queued reply (or "ok" when the
// queue is empty).
type FakeAssistant struct {
	Server *httptest.Server

	mu sync.Mutex

	// Seed state.
	ExistingAssistants []map[string]any

	// Scripted behavior.
	RunStatuses   []string // popped per run retrieve; empty means "completed"
	BatchStatuses []string // popped per batch retrieve; empty means "completed"
	Replies       []string // popped per message list; empty means "ok"

	// Recorded traffic.
	CreatedAssistants []map[string]any
	CreatedStores     []string
	DeletedStores     []string
	UploadedFiles     []string
	Threads           []map[string]any
	Messages          map[string][]map[string]any // threadID -> message bodies
	RunsStarted       int

	nextID int
}

// NewFakeAssistant starts the fake server. Callers own Close.
func NewFakeAssistant() *FakeAssistant {
	f := &FakeAssistant{Messages: map[string][]map[string]any{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/openai/", f.route)
	f.Server = httptest.NewServer(mux)
	return f
}

func (f *FakeAssistant) Close() { f.Server.Close() }

// URL returns the fake endpoint to hand to assistant.Config.
func (f *FakeAssistant) URL() string { return f.Server.URL }

func (f *FakeAssistant) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

func (f *FakeAssistant) route(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/openai/")
	parts := strings.Split(path, "/")

	switch {
	case path == "assistants" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"data": f.ExistingAssistants, "has_more": false})

	case path == "assistants" && r.Method == http.MethodPost:
		body := readJSON(r)
		body["id"] = f.id("asst")
		f.CreatedAssistants = append(f.CreatedAssistants, body)
		writeJSON(w, body)

	case path == "vector_stores" && r.Method == http.MethodPost:
		id := f.id("vs")
		f.CreatedStores = append(f.CreatedStores, id)
		writeJSON(w, map[string]any{"id": id, "name": readJSON(r)["name"]})

	case len(parts) == 2 && parts[0] == "vector_stores" && r.Method == http.MethodDelete:
		f.DeletedStores = append(f.DeletedStores, parts[1])
		writeJSON(w, map[string]any{"id": parts[1], "deleted": true})

	case path == "files" && r.Method == http.MethodPost:
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.UploadedFiles = append(f.UploadedFiles, hdr.Filename)
		writeJSON(w, map[string]any{"id": f.id("file"), "filename": hdr.Filename, "bytes": hdr.Size})

	case len(parts) == 3 && parts[0] == "vector_stores" && parts[2] == "file_batches" && r.Method == http.MethodPost:
		writeJSON(w, map[string]any{"id": f.id("batch"), "status": f.popBatchStatus()})

	case len(parts) == 4 && parts[0] == "vector_stores" && parts[2] == "file_batches" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"id": parts[3], "status": f.popBatchStatus()})

	case path == "threads" && r.Method == http.MethodPost:
		body := readJSON(r)
		id := f.id("thread")
		body["id"] = id
		f.Threads = append(f.Threads, body)
		writeJSON(w, map[string]any{"id": id})

	case len(parts) == 3 && parts[0] == "threads" && parts[2] == "messages" && r.Method == http.MethodPost:
		body := readJSON(r)
		f.Messages[parts[1]] = append(f.Messages[parts[1]], body)
		writeJSON(w, map[string]any{"id": f.id("msg"), "role": body["role"]})

	case len(parts) == 3 && parts[0] == "threads" && parts[2] == "messages" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"data": []map[string]any{{
			"id":   f.id("msg"),
			"role": "assistant",
			"content": []map[string]any{{
				"type": "text",
				"text": map[string]any{"value": f.popReply()},
			}},
		}}})

	case len(parts) == 3 && parts[0] == "threads" && parts[2] == "runs" && r.Method == http.MethodPost:
		f.RunsStarted++
		writeJSON(w, map[string]any{"id": f.id("run"), "thread_id": parts[1], "status": "queued"})

	case len(parts) == 4 && parts[0] == "threads" && parts[2] == "runs" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"id": parts[3], "thread_id": parts[1], "status": f.popRunStatus()})

	default:
		http.Error(w, "not found: "+r.Method+" "+path, http.StatusNotFound)
	}
}

func (f *FakeAssistant) popRunStatus() string {
	if len(f.RunStatuses) == 0 {
		return "completed"
	}
	s := f.RunStatuses[0]
	if len(f.RunStatuses) > 1 || !sticky(s) {
		f.RunStatuses = f.RunStatuses[1:]
	}
	return strings.TrimSuffix(s, "!")
}

func (f *FakeAssistant) popBatchStatus() string {
	if len(f.BatchStatuses) == 0 {
		return "completed"
	}
	s := f.BatchStatuses[0]
	if len(f.BatchStatuses) > 1 || !sticky(s) {
		f.BatchStatuses = f.BatchStatuses[1:]
	}
	return strings.TrimSuffix(s, "!")
}

// sticky statuses (suffixed "!") repeat forever, for never-terminating runs.
func sticky(s string) bool { return strings.HasSuffix(s, "!") }

func (f *FakeAssistant) popReply() string {
	if len(f.Replies) == 0 {
		return "ok"
	}
	s := f.Replies[0]
	f.Replies = f.Replies[1:]
	return s
}

func readJSON(r *http.Request) map[string]any {
	out := map[string]any{}
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
