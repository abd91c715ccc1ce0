package voice

import (
	"context"
	"errors"

	"receptionist/models"
)

var (
	ErrInvalidAudio   = errors.New("invalid audio")
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrNoCandidates   = errors.New("model returned no candidates")
)

// Transcriber turns one caller turn of audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// ArgumentExtractor pulls quote requirement arguments for a service out of what the caller said.
type ArgumentExtractor interface {
	ExtractArgs(ctx context.Context, service models.Service, utterance string) (*models.QuoteRequestArgs, error)
}
