// Package pagegen invokes the generation backend to produce complete HTML
// documents from free-text instructions.
//
// The backend is any OpenAI-compatible chat completion endpoint (OpenAI,
// vLLM, Ollama, a gateway). Two instruction modes exist: create, which
// builds a brand-new document from a description, and rebuild, which edits
// a supplied existing document. The mode is selected solely by whether
// prior HTML is passed — callers never name the mode explicitly here.
package pagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
	"github.com/openai/openai-go/v3/shared"
)

// ErrNoCredentials is returned by New when neither an API key nor a custom
// endpoint is configured.
var ErrNoCredentials = errors.New("pagegen: no API key and no endpoint configured")

// ErrEmptyCompletion is returned when the backend finishes without emitting
// any content. Callers must not persist anything in that case.
var ErrEmptyCompletion = errors.New("pagegen: backend returned no content")

// Config configures the generation client.
type Config struct {
	// APIKey authenticates against the backend. May be empty for local
	// endpoints that do not check credentials, in which case Endpoint is
	// required.
	APIKey string `yaml:"api_key"`

	// Endpoint overrides the backend base URL. Empty means the library
	// default (api.openai.com).
	Endpoint string `yaml:"endpoint"`

	// Model is the chat model used for generation.
	Model string `yaml:"model"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens"`

	// Logger for quality warnings. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 16000
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client generates pages through the configured backend.
type Client struct {
	api    openai.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a generation client. Either cfg.APIKey or cfg.Endpoint must be
// set.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	if cfg.APIKey == "" && cfg.Endpoint == "" {
		return nil, ErrNoCredentials
	}

	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

func (c *Client) params(prompt, currentHTML string) openai.ChatCompletionNewParams {
	system := createSystemPrompt
	if currentHTML != "" {
		system = rebuildSystemPrompt
	}
	return openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(userMessage(prompt, currentHTML)),
		},
		MaxTokens: openai.Int(int64(c.cfg.MaxTokens)),
	}
}

// Generate produces the complete document in one blocking call. currentHTML
// is the existing page content for rebuild requests; pass "" to create a new
// document. Returns ErrEmptyCompletion when the backend yields nothing.
func (c *Client) Generate(ctx context.Context, prompt, currentHTML string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, c.params(prompt, currentHTML))
	if err != nil {
		return "", fmt.Errorf("pagegen: completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", ErrEmptyCompletion
	}
	if !LooksLikeDocument(text) {
		c.logger.Warn("pagegen: output does not look like a complete HTML document",
			"model", c.cfg.Model, "bytes", len(text))
	}
	return text, nil
}

// GenerateStream opens a streaming exchange with the backend. The returned
// Stream yields text fragments whose in-order concatenation equals what
// Generate would have returned for the same inputs. Each call opens a new
// backend exchange; streams are not restartable.
func (c *Client) GenerateStream(ctx context.Context, prompt, currentHTML string) *Stream {
	return &Stream{
		inner: c.api.Chat.Completions.NewStreaming(ctx, c.params(prompt, currentHTML)),
	}
}

// Stream is a finite sequence of generated text fragments.
//
//	stream := client.GenerateStream(ctx, prompt, "")
//	defer stream.Close()
//	for stream.Next() {
//	    emit(stream.Text())
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	inner   *ssestream.Stream[openai.ChatCompletionChunk]
	text    string
	emitted bool
}

// Next advances to the next non-empty fragment. Returns false when the
// backend signals completion or fails; check Err afterwards.
func (s *Stream) Next() bool {
	for s.inner.Next() {
		chunk := s.inner.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			s.text = delta
			s.emitted = true
			return true
		}
	}
	return false
}

// Text returns the current fragment.
func (s *Stream) Text() string {
	return s.text
}

// Err reports how the stream ended. A stream that completed without ever
// emitting content ends with ErrEmptyCompletion.
func (s *Stream) Err() error {
	if err := s.inner.Err(); err != nil {
		return fmt.Errorf("pagegen: stream: %w", err)
	}
	if !s.emitted {
		return ErrEmptyCompletion
	}
	return nil
}

// Close releases the underlying exchange.
func (s *Stream) Close() error {
	return s.inner.Close()
}
