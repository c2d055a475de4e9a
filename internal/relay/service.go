package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/keyring"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
)

// SetupMessage is returned in place of a completion when no provider has credentials.
const SetupMessage = "No AI provider is configured. Set GEMINI_API_KEY, OPENAI_API_KEY, HUGGINGFACE_API_KEY, " +
	"or AZURE_OPENAI_API_KEY together with AZURE_OPENAI_ENDPOINT, then restart studyflow."

var (
	ErrEmptyMessage = errors.New("message is required")
	// ErrUpstream wraps every failure of the selected provider.
	ErrUpstream = errors.New("upstream provider failed")
)

// Service selects a provider per request and forwards the conversation to it.
type Service struct {
	providers config.ProvidersConfig
	lookup    LookupFunc
	client    *http.Client
	metrics   *Metrics
	// limits concurrent upstream calls; nil means unlimited
	sem *semaphore.Weighted
}

type Option func(*Service)

// WithLookup replaces the credential source.
func WithLookup(fn LookupFunc) Option {
	return func(s *Service) { s.lookup = fn }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds a Service reading credentials from the environment and,
// when cfg.UseKeyring is set, from the OS keyring after the environment.
func NewService(cfg config.RelayConfig, opts ...Option) *Service {
	lookup := EnvLookup
	if cfg.UseKeyring {
		lookup = Chain(EnvLookup, keyring.Lookup)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = constants.DefaultRelayTimeout
	}
	s := &Service{
		providers: cfg.Providers,
		lookup:    lookup,
		client:    &http.Client{Timeout: timeout},
	}
	if cfg.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnvLookup reads a non-empty environment variable.
func EnvLookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Chain tries each lookup in order.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Select returns the first provider, in precedence order, whose credentials
// are all present.
func (s *Service) Select() (Provider, bool) {
	for _, c := range candidates {
		creds := make(map[string]string, len(c.required)+1)
		ok := true
		for _, name := range c.required {
			v, found := s.lookup(name)
			if !found {
				ok = false
				break
			}
			creds[name] = v
		}
		if !ok {
			continue
		}
		if c.name == "azure" {
			if v, found := s.lookup(keyring.AzureDeployment); found {
				creds[keyring.AzureDeployment] = v
			}
		}
		return c.build(s.providers, creds, s.client), true
	}
	return nil, false
}

// Ask forwards message and history to the selected provider. With no
// provider configured it returns SetupMessage without any network call.
func (s *Service) Ask(ctx context.Context, message string, history []models.Turn) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	provider, ok := s.Select()
	if !ok {
		logger.Warn("No relay provider configured")
		s.metrics.recordUpstream("none", "unconfigured", 0)
		return SetupMessage, nil
	}

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.metrics.recordUpstream(provider.Name(), "throttled", 0)
			return "", fmt.Errorf("%w: no upstream slot available: %v", ErrUpstream, err)
		}
		defer s.sem.Release(1)
	}

	start := time.Now()
	reply, err := provider.Complete(ctx, message, history)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("Upstream provider failed", "provider", provider.Name(), "error", err, "elapsed", elapsed)
		s.metrics.recordUpstream(provider.Name(), "error", elapsed)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	logger.Debug("Upstream completion", "provider", provider.Name(), "elapsed", elapsed, "chars", len(reply))
	s.metrics.recordUpstream(provider.Name(), "success", elapsed)
	return reply, nil
}
