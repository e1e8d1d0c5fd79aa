package assistant

import (
	"context"
	"net/http"
)

// ListAssistants returns the first page of assistants on the resource.
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var out list[Assistant]
	if err := c.doJSON(ctx, http.MethodGet, "assistants", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateAssistant creates an assistant with file_search and code_interpreter
// enabled, on the configured model deployment.
func (c *Client) CreateAssistant(ctx context.Context, name, instructions string) (Assistant, error) {
	body := map[string]any{
		"name":         name,
		"instructions": instructions,
		"model":        c.cfg.Deployment,
		"tools":        []Tool{{Type: "file_search"}, {Type: "code_interpreter"}},
	}
	var out Assistant
	if err := c.doJSON(ctx, http.MethodPost, "assistants", body, &out); err != nil {
		return Assistant{}, err
	}
	return out, nil
}

// EnsureAssistant looks the assistant up by name and reuses it if present,
// creating it otherwise. The resource outlives the process on purpose.
func (c *Client) EnsureAssistant(ctx context.Context, name, instructions string) (Assistant, error) {
	existing, err := c.ListAssistants(ctx)
	if err != nil {
		return Assistant{}, err
	}
	for _, a := range existing {
		if a.Name == name {
			c.log.Info("assistant.reuse", "assistant_id", a.ID, "name", name)
			return a, nil
		}
	}
	created, err := c.CreateAssistant(ctx, name, instructions)
	if err != nil {
		return Assistant{}, err
	}
	c.log.Info("assistant.created", "assistant_id", created.ID, "name", name, "model", created.Model)
	return created, nil
}
