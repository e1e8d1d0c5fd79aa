// Package extract orchestrates the two remote extraction paths for one
// staged submission: the vector-store document path for PDF/Word files and
// the code-interpreter spreadsheet path for the statement of values.
package extract

import (
	"log/slog"

	"github.com/underwritr/submission-extractor/internal/assistant"
	"github.com/underwritr/submission-extractor/internal/common"
)

// Extractor runs the extraction stages against a provisioned assistant.
type Extractor struct {
	client      *assistant.Client
	assistantID string
	poll        common.PollConfig
	prompts     Prompts
	validate    bool
	log         *slog.Logger
}

func NewExtractor(client *assistant.Client, assistantID string, poll common.PollConfig, prompts Prompts, validate bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:      client,
		assistantID: assistantID,
		poll:        poll,
		prompts:     prompts,
		validate:    validate,
		log:         logger,
	}
}
