package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tmaharjan/voxcore/agent/contract"
	openrouterx "github.com/tmaharjan/voxcore/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// MaxToolRounds bounds how many tool round trips one user turn may spend
	// before the runner gives up.
	MaxToolRounds int `envconfig:"MAX_TOOL_ROUNDS" split_words:"true" default:"4"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouter() openrouterx.Config {
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: c.MaxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
