package assistant

import "github.com/underwritr/submission-extractor/constants"

// Tool enables an assistant capability ("file_search" or "code_interpreter").
type Tool struct {
	Type string `json:"type"`
}

// FileSearchResource binds vector stores to the file_search tool.
type FileSearchResource struct {
	VectorStoreIDs []string `json:"vector_store_ids"`
}

// ToolResources carries tool bindings on assistants and threads.
type ToolResources struct {
	FileSearch *FileSearchResource `json:"file_search,omitempty"`
}

// Assistant is the shared remote assistant resource.
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	Tools        []Tool `json:"tools"`
}

// VectorStore is a per-submission searchable document index.
type VectorStore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// File is an uploaded file reference.
type File struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
}

// FileCounts summarizes a file batch.
type FileCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// FileBatch is an indexing batch inside a vector store.
type FileBatch struct {
	ID         string                `json:"id"`
	Status     constants.BatchStatus `json:"status"`
	FileCounts FileCounts            `json:"file_counts"`
}

// Attachment attaches an uploaded file to a message for specific tools.
type Attachment struct {
	FileID string `json:"file_id"`
	Tools  []Tool `json:"tools"`
}

// MessageInput is an outgoing prompt.
type MessageInput struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Thread is a remote conversation.
type Thread struct {
	ID string `json:"id"`
}

// TextBlock is the inner text of a message content block.
type TextBlock struct {
	Value string `json:"value"`
}

// ContentBlock is one block of message content; only text blocks are read.
type ContentBlock struct {
	Type string    `json:"type"`
	Text TextBlock `json:"text"`
}

// Message is one turn in a thread, newest first when listed.
type Message struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Run is one assistant execution against a thread.
type Run struct {
	ID        string              `json:"id"`
	ThreadID  string              `json:"thread_id"`
	Status    constants.RunStatus `json:"status"`
	LastError *RunError           `json:"last_error,omitempty"`
}

// RunError is the failure detail on a terminal run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// list is the generic list envelope returned by the API.
type list[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}
