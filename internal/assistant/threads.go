package assistant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/underwritr/submission-extractor/internal/common"
)

// ThreadOptions configures thread creation. The vector store binding lives on
// the thread rather than on the shared assistant, so two submissions never
// contend over assistant state.
type ThreadOptions struct {
	Messages       []MessageInput
	VectorStoreIDs []string
}

// CreateThread creates a conversation, optionally seeded with messages and
// bound to vector stores.
func (c *Client) CreateThread(ctx context.Context, opts ThreadOptions) (Thread, error) {
	body := map[string]any{}
	if len(opts.Messages) > 0 {
		body["messages"] = opts.Messages
	}
	if len(opts.VectorStoreIDs) > 0 {
		body["tool_resources"] = ToolResources{
			FileSearch: &FileSearchResource{VectorStoreIDs: opts.VectorStoreIDs},
		}
	}
	var out Thread
	if err := c.doJSON(ctx, http.MethodPost, "threads", body, &out); err != nil {
		return Thread{}, err
	}
	return out, nil
}

// CreateMessage posts a user prompt onto an existing thread.
func (c *Client) CreateMessage(ctx context.Context, threadID string, msg MessageInput) (Message, error) {
	var out Message
	if err := c.doJSON(ctx, http.MethodPost, "threads/"+threadID+"/messages", msg, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

// ListMessages returns the thread's messages, newest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	var out list[Message]
	if err := c.doJSON(ctx, http.MethodGet, "threads/"+threadID+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FirstMessageText returns the first message's first text block, the sole
// extraction result the pipeline reads.
func FirstMessageText(msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("%w: no messages in thread", common.ErrFieldMissing)
	}
	for _, block := range msgs[0].Content {
		if block.Type == "text" {
			return block.Text.Value, nil
		}
	}
	return "", fmt.Errorf("%w: message %s has no text content", common.ErrFieldMissing, msgs[0].ID)
}
