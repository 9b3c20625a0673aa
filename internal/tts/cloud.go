package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/voicelab/voicestudio/internal/pcm"
)

// The backend returns raw PCM at a fixed format that is not described in
// the payload itself.
const (
	CloudSampleRate = 24000
	CloudChannels   = 1
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash-preview-tts"
)

// CloudClient implements Synthesizer against the generative-language REST
// API. Responses carry audio inline as base64 PCM16.
type CloudClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	keyFn      func() string
}

// CloudOption configures a CloudClient.
type CloudOption func(*CloudClient)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) CloudOption {
	return func(c *CloudClient) { c.baseURL = url }
}

// WithModel overrides the synthesis model.
func WithModel(model string) CloudOption {
	return func(c *CloudClient) { c.model = model }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) CloudOption {
	return func(c *CloudClient) { c.httpClient = hc }
}

// WithKeyFunc resolves the API key at request time instead of at
// construction, so a credential acquired later is picked up.
func WithKeyFunc(fn func() string) CloudOption {
	return func(c *CloudClient) { c.keyFn = fn }
}

// NewCloudClient creates a synthesis client authenticated with apiKey.
func NewCloudClient(apiKey string, opts ...CloudOption) *CloudClient {
	c := &CloudClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request/response wire types for the generateContent call.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Synthesize sends the script to the backend and decodes the inline audio
// payload into a SampleBuffer. An audio-free response (safety rejection or
// over-long input - the backend does not say which) yields
// ErrSynthesisFailed.
func (c *CloudClient) Synthesize(ctx context.Context, script, voice string) (*pcm.SampleBuffer, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: script}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	key := c.apiKey
	if c.keyFn != nil {
		key = c.keyFn()
	}
	req.Header.Set("x-goog-api-key", key)

	log.Debug("cloud synthesis request", "voice", voice, "script_len", len(script))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis request failed: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}

	data := inlineAudio(parsed)
	if data == "" {
		// Covers the empty response and the text-only rejection response.
		return nil, ErrSynthesisFailed
	}

	raw, err := pcm.DecodeBase64(data)
	if err != nil {
		return nil, err
	}

	buf, err := pcm.BytesToBuffer(raw, CloudSampleRate, CloudChannels)
	if err != nil {
		return nil, err
	}

	log.Debug("cloud synthesis complete",
		"voice", voice,
		"frames", buf.Frames(),
		"duration", buf.Duration())

	return buf, nil
}

// inlineAudio extracts the first inline audio payload, if any.
func inlineAudio(resp generateResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
