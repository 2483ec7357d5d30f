// Package provider implements llm.Provider on top of the OpenAI SDK.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/pkg/llm"
)

// Timeout bounds each completion request.
const Timeout = 30 * time.Second

const defaultModel = "gpt-4o-mini"

// ErrUnauthorized is returned for 401 responses.
var ErrUnauthorized = errors.New("unauthorized (bad API key)")

// OpenAI talks to any OpenAI compatible chat-completions endpoint.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	log         *logging.Logger
}

var _ llm.Provider = (*OpenAI)(nil)

// NewOpenAI builds a provider from the openai config table. SDK retries are
// disabled so each call makes exactly one request.
func NewOpenAI(cfg config.OpenAIConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(Timeout),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         logging.New("openai"),
	}
}

// FromConfig returns an OpenAI provider, or llm.Disabled without an API key.
func FromConfig(cfg *config.Config) llm.Provider {
	if !cfg.OpenAIConfigured() {
		return llm.Disabled{}
	}
	return NewOpenAI(cfg.OpenAI)
}

func (o *OpenAI) Enabled() bool { return true }
func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.model }

// Ping lists models to validate the key.
func (o *OpenAI) Ping(ctx context.Context) (string, error) {
	start := time.Now()
	if _, err := o.client.Models.List(ctx); err != nil {
		return "", o.fail(ctx, "ping_failed", start, err)
	}
	return fmt.Sprintf("ok (model: %s)", o.model), nil
}

// Complete runs one chat completion.
func (o *OpenAI) Complete(ctx context.Context, req *llm.Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = o.maxTokens
	}
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.Prompt),
		},
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}
	if req.HasTemperature {
		params.Temperature = openai.Float(req.Temperature)
	} else {
		params.Temperature = openai.Float(o.temperature)
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", o.fail(ctx, "completion_failed", start, err)
	}
	if len(resp.Choices) == 0 {
		return "", o.fail(ctx, "completion_empty", start, llm.ErrEmptyReply)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", o.fail(ctx, "completion_empty", start, llm.ErrEmptyReply)
	}
	o.log.WithContext(ctx).TimedEvent("completion_done", start, map[string]interface{}{
		"model":             o.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	})
	return text, nil
}

func (o *OpenAI) fail(ctx context.Context, event string, start time.Time, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			err = ErrUnauthorized
		} else {
			err = errors.Newf("HTTP %d", apiErr.StatusCode)
		}
	} else if !errors.Is(err, llm.ErrEmptyReply) {
		err = errors.Wrap(err, "network error")
	}
	o.log.WithContext(ctx).Failed(event, start, map[string]interface{}{"model": o.model}, err)
	return err
}
