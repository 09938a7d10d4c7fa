package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	subjectSystemPrompt = "You are a helpful assistant that extracts the main subject or topic from notes."
	tasksSystemPrompt   = "You are a helpful assistant that extracts action items and to-do items from notes."
)

// OpenAIClassifier calls an OpenAI compatible chat completions endpoint: one
// request for the subject and one for the action items.
type OpenAIClassifier struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIClassifier(apiKey, baseURL, model string, httpClient *http.Client) *OpenAIClassifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClassifier{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*InferenceResult, error) {
	subject, err := c.complete(ctx, subjectSystemPrompt,
		fmt.Sprintf("Extract the main subject or topic from the following note:\n\n%s\n\nSubject:", text), 50)
	if err != nil {
		return nil, fmt.Errorf("subject request failed: %w", err)
	}

	tasksText, err := c.complete(ctx, tasksSystemPrompt,
		fmt.Sprintf("Extract all action items or to-do items from the following note. Format each task on a new line starting with \"- \":\n\n%s\n\nTasks:", text), 200)
	if err != nil {
		return nil, fmt.Errorf("tasks request failed: %w", err)
	}

	return &InferenceResult{
		Subject: strings.TrimSpace(subject),
		Tasks:   ParseTaskLines(tasksText),
	}, nil
}

func (c *OpenAIClassifier) complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
