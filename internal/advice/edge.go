package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dompet/internal/aggregate"
)

// EdgeFunctionAdvisor calls a Supabase Edge Function that returns suggestions.
type EdgeFunctionAdvisor struct {
	baseURL      string
	functionName string
	anonKey      string
	httpClient   *http.Client
}

// NewEdgeFunctionAdvisor creates an advisor for {baseURL}/functions/v1/{functionName}.
// A nil httpClient uses a client with a 20 second timeout.
func NewEdgeFunctionAdvisor(baseURL, functionName, anonKey string, httpClient *http.Client) *EdgeFunctionAdvisor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &EdgeFunctionAdvisor{
		baseURL:      strings.TrimRight(baseURL, "/"),
		functionName: functionName,
		anonKey:      anonKey,
		httpClient:   httpClient,
	}
}

type edgeRequest struct {
	Month              string `json:"month"`
	Income             string `json:"income"`
	Expense            string `json:"expense"`
	TopExpenseCategory string `json:"topExpenseCategory"`
	TopExpenseAmount   string `json:"topExpenseAmount"`
}

// Suggest posts the summary to the edge function.
func (a *EdgeFunctionAdvisor) Suggest(ctx context.Context, summary aggregate.AdviceSummary) ([]string, error) {
	body, err := json.Marshal(edgeRequest{
		Month:              summary.Month,
		Income:             summary.TotalIncome.String(),
		Expense:            summary.TotalExpense.String(),
		TopExpenseCategory: summary.TopExpenseCategory,
		TopExpenseAmount:   summary.TopExpenseAmount.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling advice request: %w", err)
	}

	url := a.baseURL + "/functions/v1/" + a.functionName
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.anonKey)
	req.Header.Set("apikey", a.anonKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting advice: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting advice: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Suggestions []string `json:"suggestions"`
		Advice      string   `json:"advice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding advice response: %w", err)
	}

	if len(result.Suggestions) > 0 {
		return parseSuggestions(strings.Join(result.Suggestions, "\n")), nil
	}
	return parseSuggestions(result.Advice), nil
}

var _ Advisor = (*EdgeFunctionAdvisor)(nil)
