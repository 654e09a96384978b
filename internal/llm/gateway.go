package llm

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-fit/internal/logging"
	"github.com/jonathan/resume-fit/internal/prompts"
	"go.uber.org/zap"
)

// Completer renders a prompt template with bound variables and returns the raw model output.
type Completer interface {
	Complete(ctx context.Context, template string, variables map[string]string) (string, error)
}

// Gateway submits rendered prompts to a Client using one fixed model tier.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	client Client
	tier   ModelTier
	logger *zap.Logger
}

// NewGateway creates a Gateway that completes every prompt with the client's standard tier.
func NewGateway(client Client, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: client,
		tier:   TierStandard,
		logger: logging.OrNop(logger).Named("llm"),
	}
}

// Complete binds variables into template and returns the model's text response.
// A template referencing an unbound variable fails with *prompts.MissingVariableError
// before any network call. Backend failures are returned as *GatewayError.
// No retry is attempted.
func (g *Gateway) Complete(ctx context.Context, template string, variables map[string]string) (string, error) {
	prompt, err := prompts.Render(template, variables)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	model := g.client.GetModel(g.tier)
	g.logger.Debug("completion request",
		zap.String("model", model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logging.Truncate(prompt, logging.DefaultPreviewLength)),
	)

	start := time.Now()
	text, err := g.client.GenerateContent(ctx, prompt, g.tier)
	if err != nil {
		g.logger.Warn("completion failed", zap.String("model", model), zap.Error(err))
		return "", &GatewayError{
			Model:   model,
			Message: "completion request failed",
			Cause:   err,
		}
	}

	g.logger.Debug("completion response",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logging.Truncate(text, logging.DefaultPreviewLength)),
	)

	return text, nil
}
