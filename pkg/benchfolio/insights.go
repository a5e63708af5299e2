package benchfolio

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Insight provider names.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultClaudeModel = "claude-3-5-sonnet-latest"
	defaultOpenAIModel = "gpt-4o-mini"

	insightMaxTokens = 1024
)

// insightPrompt is the fixed coaching prompt sent with the rendered
// chart.
const insightPrompt = "You are a financial coach tasked with promoting financial insight and learning. " +
	"The attached chart shows portfolio value compared to a benchmark index ETF. " +
	"Ask one question each as Warren Buffett, Charlie Munger and Morgan Housel would ask."

// GenerateInsight renders the report's valuation chart and hands it,
// together with the fixed coaching prompt, to the configured
// text-generation provider. The returned text is stored on the report.
//
// A missing API key is a hard precondition failure reported to the
// caller; the report itself remains available either way.
func (c *Core) GenerateInsight(ctx context.Context, reportID int64) (string, error) {
	report, err := c.GetReport(ctx, reportID)
	if err != nil {
		return "", err
	}
	if len(report.Points) < 2 {
		return "", NewError(ErrCodeValidation, "report has too few valuation points to chart")
	}

	png, err := RenderValuationChart(report.Points, report.Params.BenchmarkSymbol)
	if err != nil {
		return "", WrapError(ErrCodeInternal, "render chart", err)
	}

	provider := strings.ToLower(strings.TrimSpace(c.ai.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	if strings.TrimSpace(c.ai.APIKey) == "" {
		return "", NewError(ErrCodeMissingCredential, fmt.Sprintf("no API key configured for %s provider", provider))
	}

	c.logger.Info("generating insight", "report_id", reportID, "provider", provider)

	var text string
	switch provider {
	case ProviderGemini:
		text, err = generateInsightGemini(ctx, c.ai, insightPrompt, png)
	case ProviderClaude:
		text, err = generateInsightClaude(ctx, c.ai, insightPrompt, png)
	case ProviderOpenAI:
		text, err = generateInsightOpenAI(ctx, c.ai, insightPrompt, png)
	default:
		return "", NewError(ErrCodeUnsupported, fmt.Sprintf("unknown insight provider %q", provider))
	}
	if err != nil {
		return "", WrapError(ErrCodeInternal, fmt.Sprintf("%s insight generation failed", provider), err)
	}

	if err := c.setReportInsight(ctx, reportID, text); err != nil {
		return "", err
	}
	return text, nil
}

func generateInsightGemini(ctx context.Context, cfg AIConfig, prompt string, png []byte) (string, error) {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(png, "image/png"),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	response, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: insightMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(response.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
