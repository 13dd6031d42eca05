package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/schememitra/internal/logger"
	"github.com/spigell/schememitra/internal/matching"
	"github.com/spigell/schememitra/internal/metrics"
	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Explainer turns a scheme and a user profile into a MatchResult.
type Explainer struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewExplainer creates an Explainer. A nil generator is allowed, every
// explanation is then a configuration warning.
func NewExplainer(generator Generator, maxLogLength int, log *zap.Logger) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	provider := ""
	if generator != nil {
		provider = generator.Provider()
	}

	return &Explainer{
		generator: generator,
		logger:    logger.WithProvider(log, provider),
		maxLogLen: maxLogLength,
	}
}

// Explain never fails. Provider problems are reported inside the explanation
// text; the score is computed locally and is never affected by them.
func (e *Explainer) Explain(ctx context.Context, scheme schemes.Scheme, profile string) MatchResult {
	result := MatchResult{Score: matching.Score(scheme, profile)}
	log := logger.WithFields(e.logger, logger.SchemeFields(scheme.ID, scheme.Name)...)

	if e.generator == nil {
		metrics.ExplanationsTotal.WithLabelValues("none", metrics.OutcomeNotConfigured).Inc()
		result.Explanation = Fallback("", ErrNotConfigured)
		return result
	}

	provider := e.generator.Provider()
	prompt := BuildPrompt(scheme, profile)

	log.Debug("explanation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	started := time.Now()
	text, err := e.generator.Generate(ctx, prompt, ExplanationMaxTokens)
	metrics.ExplanationDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())

	text = strings.TrimSpace(text)
	switch {
	case errors.Is(err, ErrNotConfigured):
		metrics.ExplanationsTotal.WithLabelValues(provider, metrics.OutcomeNotConfigured).Inc()
		log.Debug("explanation provider is not configured")
		result.Explanation = Fallback(provider, err)
		return result
	case err != nil:
		metrics.ExplanationsTotal.WithLabelValues(provider, metrics.OutcomeError).Inc()
		log.Warn("explanation request failed", zap.Error(err))
		result.Explanation = Fallback(provider, err)
		return result
	case text == "":
		metrics.ExplanationsTotal.WithLabelValues(provider, metrics.OutcomeEmpty).Inc()
		log.Warn("explanation provider returned empty text")
		result.Explanation = Fallback(provider, fmt.Errorf("%w: empty completion", ErrMalformedResponse))
		return result
	}

	metrics.ExplanationsTotal.WithLabelValues(provider, metrics.OutcomeOK).Inc()
	log.Debug("explanation response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	result.Explanation = text
	return result
}

// BuildPrompt fills the explanation template with scheme details and the profile.
func BuildPrompt(scheme schemes.Scheme, profile string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Scheme Name: {{SCHEME_NAME}}\nUser Profile: {{USER_PROFILE}}"
	}

	return strings.NewReplacer(
		"{{SCHEME_NAME}}", scheme.Name,
		"{{MINISTRY}}", scheme.Ministry,
		"{{BENEFICIARY}}", scheme.Beneficiary,
		"{{BENEFIT}}", scheme.Benefit,
		"{{USER_PROFILE}}", strings.TrimSpace(profile),
	).Replace(template)
}

// Fallback renders the explanation shown instead of a model completion.
func Fallback(provider string, err error) string {
	if provider == "" {
		provider = "AI provider"
	}

	switch {
	case err == nil:
		return WarningMarker + " " + provider + " returned no explanation."
	case errors.Is(err, ErrNotConfigured):
		return fmt.Sprintf("%s %s not configured. Please set your API credentials in .env file.", WarningMarker, provider)
	case errors.Is(err, ErrBadStatus), errors.Is(err, ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s Error calling %s: %v", WarningMarker, provider, err)
	default:
		return fmt.Sprintf("%s Unexpected error: %v", WarningMarker, err)
	}
}
