// Package speech wraps the OpenAI audio endpoints behind the contract
// Transcriber and Synthesizer interfaces so the session loop never talks
// to the SDK directly.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
)

type Config struct {
	BaseURL         string `envconfig:"BASE_URL" split_words:"true"`
	APIKey          string `envconfig:"API_KEY" split_words:"true" required:"true"`
	TranscribeModel string `envconfig:"TRANSCRIBE_MODEL" split_words:"true" default:"whisper-1"`
	SpeechModel     string `envconfig:"SPEECH_MODEL" split_words:"true" default:"tts-1"`
}

type Client struct {
	api             openaisdk.Client
	transcribeModel string
	speechModel     string
}

var (
	_ contractx.Transcriber = (*Client)(nil)
	_ contractx.Synthesizer = (*Client)(nil)
)

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: speech api key is required", contractx.ErrValidation)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &Client{
		api:             openaisdk.NewClient(opts...),
		transcribeModel: cfg.TranscribeModel,
		speechModel:     cfg.SpeechModel,
	}, nil
}

// Transcribe converts one audio turn into text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	res, err := c.api.Audio.Transcriptions.New(ctx, openaisdk.AudioTranscriptionNewParams{
		Model: openaisdk.AudioModel(c.transcribeModel),
		File:  openaisdk.File(audio, "turn.wav", "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}

// Synthesize renders the reply text in the persona's voice. The style hint
// rides along as speech instructions when the model supports them.
func (c *Client) Synthesize(ctx context.Context, text string, voice contractx.Voice) ([]byte, error) {
	params := openaisdk.AudioSpeechNewParams{
		Model: openaisdk.SpeechModel(c.speechModel),
		Voice: openaisdk.AudioSpeechNewParamsVoice(voice.ID),
		Input: text,
	}
	if voice.Style != "" {
		params.Instructions = openaisdk.String("Speak in a " + voice.Style + " style.")
	}

	res, err := c.api.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read synthesized audio: %w", err)
	}
	return data, nil
}
