package planner

import (
	"context"
	"errors"
)

// ErrTranscriptionUnavailable is returned when no transcription backend is
// configured.
var ErrTranscriptionUnavailable = errors.New("planner: transcription unavailable")

// Transcription is the result of transcribing a voice note.
type Transcription struct {
	Transcript  string
	ActionItems string
}

// Transcriber converts recorded audio into a transcript with extracted action
// items. Implementations may call external services; failures are tolerated
// by the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (Transcription, error)
}

// NopTranscriber always reports that transcription is unavailable. It is the
// default when no backend is wired in.
type NopTranscriber struct{}

// Transcribe implements Transcriber.
func (NopTranscriber) Transcribe(context.Context, []byte) (Transcription, error) {
	return Transcription{}, ErrTranscriptionUnavailable
}
