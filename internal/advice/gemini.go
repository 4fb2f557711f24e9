package advice

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"dompet/internal/aggregate"
	"dompet/internal/money"
)

// contentGenerator is the part of the genai client the advisor uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAdvisor asks a Gemini model for suggestions.
type GeminiAdvisor struct {
	models contentGenerator
	model  string
}

// NewGeminiAdvisor creates a Gemini API client for model.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiAdvisor{models: client.Models, model: model}, nil
}

// Suggest asks the model for a JSON array of short suggestions.
func (a *GeminiAdvisor) Suggest(ctx context.Context, summary aggregate.AdviceSummary) ([]string, error) {
	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(buildPrompt(summary)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	suggestions := parseSuggestions(resp.Text())
	if len(suggestions) == 0 {
		return nil, errors.New("generate advice: empty response")
	}
	return suggestions, nil
}

func buildPrompt(s aggregate.AdviceSummary) string {
	top := "tidak ada"
	if s.TopExpenseCategory != "" {
		top = fmt.Sprintf("%s (%s)", s.TopExpenseCategory, money.Format(s.TopExpenseAmount))
	}
	return "Kamu adalah penasihat keuangan pribadi.\n" +
		"Ringkasan bulan " + s.Month + ":\n" +
		"- Pemasukan: " + money.Format(s.TotalIncome) + "\n" +
		"- Pengeluaran: " + money.Format(s.TotalExpense) + "\n" +
		"- Kategori pengeluaran terbesar: " + top + "\n\n" +
		"Berikan 3 saran singkat dan praktis dalam bahasa Indonesia.\n" +
		"Jawab HANYA dengan array JSON berisi string, tanpa teks lain.\n"
}

var _ Advisor = (*GeminiAdvisor)(nil)
