package llm_client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInitialized = errors.New("llm client not initialized")
	ErrUnavailable    = errors.New("planning capability unavailable")
)

type Config struct {
	Backend    string `yaml:"backend"`
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host"`
	APIKey     string `yaml:"-"`
}

type Provider interface {
	Init(cfg Config) error
	DefaultModel() string
	AllowedModelOrDefault(model string) string
	GenerateJSON(ctx context.Context, system, prompt, model string, schema any) (string, error)
}

// Client is the planning capability seen by the rest of the program. A
// client whose backend failed to initialize stays usable and reports
// ErrUnavailable on every call.
type Client struct {
	provider Provider
	backend  string
	model    string
	initErr  error
}

func New(cfg Config) *Client {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "gemini"
	}
	c := &Client{backend: backend, model: strings.TrimSpace(cfg.Model)}

	var p Provider
	switch backend {
	case "ollama":
		p = &ollamaProvider{}
	case "gemini":
		p = &geminiProvider{}
	case "none":
		c.initErr = fmt.Errorf("%w: planner backend disabled", ErrUnavailable)
		return c
	default:
		c.initErr = fmt.Errorf("%w: unsupported LLM backend: %s", ErrUnavailable, backend)
		return c
	}
	if err := p.Init(cfg); err != nil {
		c.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		return c
	}
	c.provider = p
	return c
}

// WithProvider wraps an already initialized provider.
func WithProvider(name string, p Provider) *Client {
	return &Client{provider: p, backend: name}
}

func (c *Client) Available() bool {
	return c != nil && c.provider != nil
}

func (c *Client) Backend() string {
	if c == nil {
		return ""
	}
	return c.backend
}

// Model reports the model requests will use.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	if !c.Available() {
		return c.model
	}
	return c.provider.AllowedModelOrDefault(c.model)
}

// Err returns why the client is unavailable, or nil.
func (c *Client) Err() error {
	if c == nil {
		return ErrNotInitialized
	}
	return c.initErr
}

func (c *Client) GenerateJSON(ctx context.Context, system, prompt string, schema any) (string, error) {
	if c == nil {
		return "", ErrNotInitialized
	}
	if c.provider == nil {
		if c.initErr != nil {
			return "", c.initErr
		}
		return "", ErrNotInitialized
	}
	return c.provider.GenerateJSON(ctx, system, prompt, c.model, schema)
}
