package responder

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"partfinder/internal/port"
)

// OpenAIResponder generates responses through a chat-completion model.
// Prompt construction renders the same product facts the template
// responder would, so a fallback after an API failure loses no information.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(apiKeyEnv, model string) (*OpenAIResponder, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	return &OpenAIResponder{
		client: openai.NewClient(key),
		model:  model,
	}, nil
}

func (r *OpenAIResponder) Respond(ctx context.Context, in port.ResponderInput) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: 1000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (r *OpenAIResponder) ModelName() string {
	return r.model
}

// buildPrompt renders the query, ranked results and recommendations into a
// structured prompt for the model.
func buildPrompt(in port.ResponderInput) string {
	var b strings.Builder

	b.WriteString("# Search Results:\n\n")
	for i, result := range in.Results {
		p := result.Product
		desc := p.Description
		if len([]rune(desc)) > 200 {
			desc = string([]rune(desc)[:200])
		}
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "   - Reference: %s\n", p.ReferenceNumber)
		fmt.Fprintf(&b, "   - Category: %s\n", p.Category)
		fmt.Fprintf(&b, "   - Page: %d\n", p.PageNumber)
		fmt.Fprintf(&b, "   - Description: %s\n", desc)
		fmt.Fprintf(&b, "   - Match Score: %.2f\n\n", result.Score)
	}

	if len(in.Recommendations) > 0 {
		b.WriteString("\n# Recommended Related Products:\n\n")
		for _, rec := range in.Recommendations {
			fmt.Fprintf(&b, "- %s (Ref: %s)\n", rec.Product.Name, rec.Product.ReferenceNumber)
			fmt.Fprintf(&b, "  Reason: %s\n", rec.Reason)
		}
	}

	return fmt.Sprintf(`You are a helpful industrial parts catalog assistant. A customer is searching for products.

Customer Query: %q

%s

Please provide a helpful, concise response that:
1. Confirms what the customer is looking for
2. Presents the top 2-3 most relevant products with their key details
3. Mentions related products if available
4. Keeps the tone professional but friendly
5. Limits response to 3-4 short paragraphs

Format product details clearly with reference numbers and page locations.`, in.Query, b.String())
}
