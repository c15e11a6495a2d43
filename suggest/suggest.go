// Package suggest asks a generative model for styling hints (title,
// description, brand color) for a URL payload. Every failure path
// degrades to a static fallback so the studio never blocks on the
// network.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 15 * time.Second
	endpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

// Suggestion is the model's styling proposal for a payload.
type Suggestion struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	SuggestedColor string `json:"suggestedColor"`
}

// Fallback is returned whenever a live suggestion cannot be obtained.
func Fallback() Suggestion {
	return Suggestion{
		Title:          "New QR Code",
		Description:    "Scan to open the link.",
		SuggestedColor: "#000000",
	}
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	log      *zap.SugaredLogger
}

// NewClient builds a suggestion client. An empty apiKey is allowed; such
// a client answers with Fallback without touching the network.
func NewClient(apiKey string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		apiKey:   apiKey,
		model:    defaultModel,
		endpoint: fmt.Sprintf(endpointFormat, defaultModel),
		http:     &http.Client{Timeout: defaultTimeout},
		log:      log,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Suggest returns styling hints for url. Missing credentials, transport
// errors and malformed responses all produce the fallback suggestion;
// only the fallback's reason is logged.
func (c *Client) Suggest(ctx context.Context, url string) Suggestion {
	if c.apiKey == "" {
		c.log.Debugw("no suggestion credential, using fallback")
		return Fallback()
	}

	s, err := c.call(ctx, url)
	if err != nil {
		c.log.Warnw("suggestion request failed, using fallback", "error", err)
		return Fallback()
	}
	return s
}

func (c *Client) call(ctx context.Context, url string) (Suggestion, error) {
	prompt := fmt.Sprintf(
		"Analyze this URL and suggest a professional title, a short catchy description (max 15 words), "+
			"and a HEX color that matches its brand vibe, as JSON with keys title, description, suggestedColor: %s",
		url,
	)
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config:   genConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("model returned status %s", resp.Status)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Suggestion{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return Suggestion{}, fmt.Errorf("empty model response")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(parsed.Candidates[0].Content.Parts[0].Text), &s); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion payload: %w", err)
	}
	if s.Title == "" || s.SuggestedColor == "" {
		return Suggestion{}, fmt.Errorf("incomplete suggestion payload")
	}
	return s, nil
}
