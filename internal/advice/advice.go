// Package advice asks an external service for short financial suggestions
// based on the current month's totals. Advice is best-effort: callers treat
// every error as "no advice available".
package advice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"dompet/internal/aggregate"
	"dompet/internal/config"
)

// maxSuggestions caps how many suggestions are returned to clients.
const maxSuggestions = 5

// ErrUnavailable is returned when no advice provider is configured.
var ErrUnavailable = errors.New("advice service is not configured")

// Advisor produces suggestions for a monthly summary.
type Advisor interface {
	Suggest(ctx context.Context, summary aggregate.AdviceSummary) ([]string, error)
}

// NopAdvisor never has advice.
type NopAdvisor struct{}

// Suggest always returns ErrUnavailable.
func (NopAdvisor) Suggest(context.Context, aggregate.AdviceSummary) ([]string, error) {
	return nil, ErrUnavailable
}

// Provider names accepted in ADVICE_PROVIDER.
const (
	ProviderEdge   = "edge"
	ProviderGemini = "gemini"
)

// New builds the configured advisor. Misconfiguration degrades to NopAdvisor.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.AdviceProvider {
	case ProviderEdge:
		if cfg.SupabaseURL == "" {
			logger.Warn("ADVICE_PROVIDER=edge requires SUPABASE_URL, advice disabled")
			return NopAdvisor{}
		}
		return NewEdgeFunctionAdvisor(cfg.SupabaseURL, cfg.AdviceFunctionName, cfg.SupabaseAnonKey, nil)
	case ProviderGemini:
		advisor, err := NewGeminiAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini advisor unavailable, advice disabled", zap.Error(err))
			return NopAdvisor{}
		}
		return advisor
	case "":
		return NopAdvisor{}
	default:
		logger.Warn("unknown ADVICE_PROVIDER, advice disabled", zap.String("provider", cfg.AdviceProvider))
		return NopAdvisor{}
	}
}

// parseSuggestions accepts either a JSON array of strings or free text with
// one suggestion per line, optionally bulleted or numbered.
func parseSuggestions(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var list []string
	bulleted := false
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		list = strings.Split(raw, "\n")
		bulleted = true
	}

	suggestions := []string{}
	for _, s := range list {
		if bulleted {
			s = strings.TrimLeftFunc(s, func(r rune) bool {
				return unicode.IsSpace(r) || unicode.IsDigit(r) || strings.ContainsRune("-*•.)", r)
			})
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}
