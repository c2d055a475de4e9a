// Package relay forwards chat messages to a single text-generation provider
// and serves that exchange over HTTP.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/keyring"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
)

// Persona frames every conversation sent upstream.
const Persona = "You are a helpful AI study assistant for students. You help with studying, productivity, time management, and academic success. Keep responses practical, encouraging, and concise."

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("provider returned no completion")

const (
	maxOutputTokens        = 500
	temperature            = 0.7
	topP                   = 0.95
	defaultAzureDeployment = "gpt-4o-mini"
)

// Provider is one upstream text-generation API.
type Provider interface {
	Name() string
	Complete(ctx context.Context, message string, history []models.Turn) (string, error)
}

// LookupFunc returns a credential by its environment variable name.
type LookupFunc func(name string) (string, bool)

// candidate is one entry of the provider precedence list. build is only
// called when every required credential is present.
type candidate struct {
	name     string
	required []string
	build    func(cfg config.ProvidersConfig, creds map[string]string, client *http.Client) Provider
}

var candidates = []candidate{
	{
		name:     "gemini",
		required: []string{keyring.GeminiAPIKey},
		build: func(cfg config.ProvidersConfig, creds map[string]string, client *http.Client) Provider {
			return &gemini{baseURL: cfg.Gemini.BaseURL, model: cfg.Gemini.Model, apiKey: creds[keyring.GeminiAPIKey], client: client}
		},
	},
	{
		name:     "openai",
		required: []string{keyring.OpenAIAPIKey},
		build: func(cfg config.ProvidersConfig, creds map[string]string, client *http.Client) Provider {
			return &openAI{
				name:    "openai",
				url:     strings.TrimRight(cfg.OpenAI.BaseURL, "/") + "/v1/chat/completions",
				model:   cfg.OpenAI.Model,
				headers: map[string]string{"Authorization": "Bearer " + creds[keyring.OpenAIAPIKey]},
				client:  client,
			}
		},
	},
	{
		name:     "huggingface",
		required: []string{keyring.HuggingFaceAPIKey},
		build: func(cfg config.ProvidersConfig, creds map[string]string, client *http.Client) Provider {
			return &huggingFace{baseURL: cfg.HuggingFace.BaseURL, model: cfg.HuggingFace.Model, apiKey: creds[keyring.HuggingFaceAPIKey], client: client}
		},
	},
	{
		name:     "azure",
		required: []string{keyring.AzureAPIKey, keyring.AzureEndpoint},
		build: func(cfg config.ProvidersConfig, creds map[string]string, client *http.Client) Provider {
			deployment := creds[keyring.AzureDeployment]
			if deployment == "" {
				deployment = defaultAzureDeployment
			}
			u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
				strings.TrimRight(creds[keyring.AzureEndpoint], "/"), url.PathEscape(deployment), url.QueryEscape(cfg.Azure.APIVersion))
			return &openAI{
				name:    "azure",
				url:     u,
				headers: map[string]string{"api-key": creds[keyring.AzureAPIKey]},
				client:  client,
			}
		},
	},
}

// chatMessage is the OpenAI-style message shape, also used by Azure OpenAI.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAI struct {
	name    string
	url     string
	model   string
	headers map[string]string
	client  *http.Client
}

func (p *openAI) Name() string { return p.name }

func (p *openAI) Complete(ctx context.Context, message string, history []models.Turn) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: Persona})
	for _, t := range history {
		messages = append(messages, chatMessage{Role: string(t.Role), Content: t.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	req := struct {
		Model       string        `json:"model,omitempty"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
	}{p.model, messages, maxOutputTokens, temperature}

	var resp struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := postJSON(ctx, p.client, p.name, p.url, p.headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

type gemini struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (p *gemini) Name() string { return "gemini" }

func (p *gemini) Complete(ctx context.Context, message string, history []models.Turn) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, t := range history {
		role := "user"
		if t.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: t.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	req := map[string]any{
		"systemInstruction": geminiContent{Parts: []geminiPart{{Text: Persona}}},
		"contents":          contents,
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"topK":            40,
			"topP":            topP,
			"maxOutputTokens": maxOutputTokens,
		},
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(p.baseURL, "/"), url.PathEscape(p.model), url.QueryEscape(p.apiKey))

	var resp struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := postJSON(ctx, p.client, p.Name(), u, nil, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

type huggingFace struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

func (p *huggingFace) Name() string { return "huggingface" }

func (p *huggingFace) Complete(ctx context.Context, message string, history []models.Turn) (string, error) {
	req := map[string]any{
		"inputs": instructPrompt(message, history),
		"parameters": map[string]any{
			"max_new_tokens":   maxOutputTokens,
			"temperature":      temperature,
			"top_p":            topP,
			"return_full_text": false,
		},
	}
	u := strings.TrimRight(p.baseURL, "/") + "/models/" + p.model
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var resp []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := postJSON(ctx, p.client, p.Name(), u, headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || resp[0].GeneratedText == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp[0].GeneratedText), nil
}

// instructPrompt renders the conversation in the [INST] format used by
// instruction-tuned models on the inference API.
func instructPrompt(message string, history []models.Turn) string {
	var b strings.Builder
	b.WriteString("<s>")
	for _, t := range history {
		if t.Role == models.RoleUser {
			fmt.Fprintf(&b, "[INST] %s [/INST]", t.Content)
		} else {
			fmt.Fprintf(&b, " %s</s>", t.Content)
		}
	}
	fmt.Fprintf(&b, "[INST] %s\n\n%s [/INST]", Persona, message)
	return b.String()
}

func postJSON(ctx context.Context, client *http.Client, name, u string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s API error %d: %s", name, resp.StatusCode, truncate(string(respBody), 200))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
