package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// Cheapest chat model on the current pricing page.
	textModel  = "gpt-4o-mini"
	imageModel = "dall-e-3"
)

type credentialProvider interface {
	ResolveKey(ctx context.Context) (string, error)
}

type client struct {
	creds   credentialProvider
	baseURL string
	hc      *http.Client
}

type Option func(*client)

func WithBaseURL(url string) Option {
	return func(c *client) { c.baseURL = url }
}

func NewClient(creds credentialProvider, opts ...Option) (*client, error) {
	if creds == nil {
		return nil, errors.New("credential provider cannot be nil")
	}

	c := &client{
		creds:   creds,
		baseURL: defaultBaseURL,
		hc:      &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: textModel,
		Messages: []chatCompletionMessage{
			{Role: chatMessageRoleSystem, Content: systemPrompt},
			{Role: chatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat completion request: %w", err)
	}

	respBody, err := c.post(ctx, c.baseURL+"/chat/completions", reqBody)
	if err != nil {
		return "", fmt.Errorf("calling chat completion: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("parsing chat completion response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

func (c *client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	reqBody, err := json.Marshal(imageGenerationRequest{
		Model:  imageModel,
		Prompt: prompt,
		N:      1,
		Size:   size1024x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling image generation request: %w", err)
	}

	respBody, err := c.post(ctx, c.baseURL+"/images/generations", reqBody)
	if err != nil {
		return nil, fmt.Errorf("calling image generation: %w", err)
	}

	var generation imageGenerationResponse
	if err := json.Unmarshal(respBody, &generation); err != nil {
		return nil, fmt.Errorf("parsing image generation response: %w", err)
	}

	if len(generation.Data) == 0 {
		return nil, errors.New("no generated images returned")
	}

	imageData, err := c.downloadImage(ctx, generation.Data[0].URL)
	if err != nil {
		return nil, fmt.Errorf("downloading generated image: %w", err)
	}

	return imageData, nil
}

func (c *client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	key, err := c.creds.ResolveKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving credential: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return respBody, nil
}

func (c *client) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	return imageData, nil
}
