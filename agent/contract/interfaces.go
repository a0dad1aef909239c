package contract

import (
	"context"
	"io"
)

// Transcriber converts one finished user turn of audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Synthesizer renders agent speech with the given voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}
