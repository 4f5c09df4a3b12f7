package bodygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/reachout-dev/reachout/internal/logger"
)

const aiPrompt = "Write an email from my side to a recruiter asking about a role I am " +
	"interested in at their company. Keep the tone professional and friendly. " +
	"Do not give anything extra in response, just direct HTML which will be the " +
	"body of the email - no hi, no hello, no instructions, just direct response " +
	"of HTML. Keep the sender name as %s, email: %s"

// AIClient talks to an OpenAI-compatible chat-completions endpoint.
type AIClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewAIClient(endpoint, model string, timeout time.Duration) *AIClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AIClient{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for an outreach body on behalf of the sender.
// The raw model output is returned; the Builder sanitizes it before use.
func (c *AIClient) Generate(ctx context.Context, senderName, senderEmail string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(aiPrompt, senderName, senderEmail)},
		},
		Temperature: 0.7,
		MaxTokens:   -1,
		Stream:      false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat request failed with status: %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("chat response contained no content")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Generated produces an AI body and sanitizes it. Fails when no AI endpoint
// is configured; callers are expected to fall back to Static.
func (b *Builder) Generated(ctx context.Context, senderName, senderEmail string) (string, error) {
	if b.ai == nil {
		return "", fmt.Errorf("ai generation is not configured")
	}
	content, err := b.ai.Generate(ctx, senderName, senderEmail)
	if err != nil {
		logger.Log.Warn("ai generation failed", "error", err)
		return "", err
	}
	return b.policy.Sanitize(strings.TrimSpace(content)), nil
}
