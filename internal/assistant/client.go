// Package assistant is a thin client for the Azure OpenAI Assistants v2
// REST surface: assistants, vector stores, files, threads, messages and runs.
// Only the operations the extraction pipeline needs are implemented.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/underwritr/submission-extractor/internal/common"
)

// Config for the Azure OpenAI client.
type Config struct {
	Endpoint   string        // e.g. https://myresource.openai.azure.com
	APIKey     string        // if empty, falls back to env AZURE_OPENAI_API_KEY
	APIVersion string        // e.g. 2024-05-01-preview
	Deployment string        // model deployment name used for assistants/runs
	Timeout    time.Duration // http client timeout per request
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-05-01-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// endpointURL builds {endpoint}/openai/{path}?api-version={v}.
func (c *Client) endpointURL(path string) string {
	u := strings.TrimRight(c.cfg.Endpoint, "/") + "/openai/" + strings.TrimLeft(path, "/")
	return u + "?api-version=" + url.QueryEscape(c.cfg.APIVersion)
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil). Non-2xx statuses surface as
// common.ErrRemoteCall with the response body attached.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(path), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrRemoteCall, method, path, err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.log.Warn("assistant response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d: %s", common.ErrRemoteCall, method, path, resp.StatusCode, buf.String())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// UploadFile uploads a local file via multipart form-data. Purpose is
// "assistants" for both vector-store and attachment uploads.
func (c *Client) UploadFile(ctx context.Context, path, purpose string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.log.Warn("upload file close error", "path", path, "error", cerr)
		}
	}()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("purpose", purpose); err != nil {
		return File{}, fmt.Errorf("write purpose field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return File{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return File{}, fmt.Errorf("copy file contents: %w", err)
	}
	if err := mw.Close(); err != nil {
		return File{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL("files"), &body)
	if err != nil {
		return File{}, err
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return File{}, fmt.Errorf("%w: upload %s: %v", common.ErrRemoteCall, filepath.Base(path), err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.log.Warn("assistant response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return File{}, fmt.Errorf("%w: upload %s: status %d: %s", common.ErrRemoteCall, filepath.Base(path), resp.StatusCode, buf.String())
	}
	var out File
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		return File{}, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}
