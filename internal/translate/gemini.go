package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient translates titles through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// TranslateTitle asks the model for a Japanese rendition of an English
// paper title. The prompt pins the output to the bare title; surrounding
// quote characters are stripped from the response regardless.
func (c *GeminiClient) TranslateTitle(ctx context.Context, title string) (string, error) {
	model := c.client.GenerativeModel(c.model)

	prompt := fmt.Sprintf(`Translate the following academic paper title into Japanese.
Output only the translated title, no explanation, no quotes.

Title: %s`, title)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	out := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	out = strings.TrimSpace(out)
	out = strings.Trim(out, "\"「」『』")
	return strings.TrimSpace(out), nil
}
