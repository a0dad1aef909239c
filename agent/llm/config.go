package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	chatmodelx "github.com/brewhaven/voice-agents/pkg/chatmodel"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	BaristaModel        string  `envconfig:"BARISTA_MODEL" split_words:"true"`
	TutorModel          string  `envconfig:"TUTOR_MODEL" split_words:"true"`
	WellnessModel       string  `envconfig:"WELLNESS_MODEL" split_words:"true"`
	BaristaTemperature  float32 `envconfig:"BARISTA_TEMPERATURE" split_words:"true" default:"-1"`
	TutorTemperature    float32 `envconfig:"TUTOR_TEMPERATURE" split_words:"true" default:"-1"`
	WellnessTemperature float32 `envconfig:"WELLNESS_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// ChatModelFor resolves the model config for one persona. Per-agent
// overrides win over the defaults; a negative temperature means "not set".
func (c Config) ChatModelFor(agentType contractx.AgentType) chatmodelx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeBarista:
		if v := strings.TrimSpace(c.BaristaModel); v != "" {
			modelName = v
		}
		if c.BaristaTemperature >= 0 {
			temp = c.BaristaTemperature
		}
	case contractx.AgentTypeTutor:
		if v := strings.TrimSpace(c.TutorModel); v != "" {
			modelName = v
		}
		if c.TutorTemperature >= 0 {
			temp = c.TutorTemperature
		}
	case contractx.AgentTypeWellness:
		if v := strings.TrimSpace(c.WellnessModel); v != "" {
			modelName = v
		}
		if c.WellnessTemperature >= 0 {
			temp = c.WellnessTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return chatmodelx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
