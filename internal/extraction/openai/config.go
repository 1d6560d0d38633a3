package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/docbase-br/docbase/constants"
)

// Config for the OpenAI client.
type Config struct {
	APIKey          string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL         string        // default https://api.openai.com/v1
	Model           string        // e.g. "gpt-5-mini"
	SchemaVersion   string        // stamped into ai_meta
	MaxTextChars    int           // input truncation limit
	MaxOutputTokens int
	Timeout         time.Duration // http client timeout
	ReasoningEffort string        // minimal|low|medium|high
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-5-mini"
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = "2026-02-02.v1"
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = 24000
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if _, ok := constants.ReasoningEfforts[cfg.ReasoningEffort]; !ok {
		cfg.ReasoningEffort = constants.ReasoningEffortDefault
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
