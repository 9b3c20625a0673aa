package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Recommendation is one AI casting suggestion: a persona from the catalog
// and the model's reason for picking it.
type Recommendation struct {
	Voice  string `json:"voice"`
	Reason string `json:"reason"`
}

// Recommender suggests personas for a described use case. The service is
// opaque; only its interface is part of this system.
type Recommender interface {
	Recommend(ctx context.Context, brief string, n int) ([]Recommendation, error)
}

// CloudRecommender implements Recommender against the generative-language
// REST API, asking the model for a JSON shortlist and validating the names
// against the catalog.
type CloudRecommender struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	catalog    *Catalog
}

// NewCloudRecommender creates a casting client over cat.
func NewCloudRecommender(apiKey string, cat *Catalog) *CloudRecommender {
	return &CloudRecommender{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://generativelanguage.googleapis.com",
		model:      "gemini-2.5-flash",
		apiKey:     apiKey,
		catalog:    cat,
	}
}

// WithEndpoint overrides the API endpoint and model. Used by tests.
func (r *CloudRecommender) WithEndpoint(baseURL, model string) *CloudRecommender {
	r.baseURL = baseURL
	r.model = model
	return r
}

type castingRequest struct {
	Contents []castingContent `json:"contents"`
}

type castingContent struct {
	Parts []castingPart `json:"parts"`
}

type castingPart struct {
	Text string `json:"text"`
}

type castingResponse struct {
	Candidates []struct {
		Content castingContent `json:"content"`
	} `json:"candidates"`
}

// Recommend asks the model for up to n personas fitting brief. Suggestions
// naming voices outside the catalog are dropped.
func (r *CloudRecommender) Recommend(ctx context.Context, brief string, n int) ([]Recommendation, error) {
	if n <= 0 {
		n = 3
	}

	var names []string
	for _, p := range r.catalog.All() {
		names = append(names, fmt.Sprintf("%s (%s, %s pitch: %s)",
			p.Name, p.Analysis.Gender, p.Analysis.Pitch, strings.Join(p.Analysis.Characteristics, ", ")))
	}

	prompt := fmt.Sprintf(
		"You are casting a voice for this use case: %q.\n"+
			"Choose the %d best fits from this catalog:\n%s\n"+
			"Reply with only a JSON array of objects with keys \"voice\" and \"reason\".",
		brief, n, strings.Join(names, "\n"))

	body, err := json.Marshal(castingRequest{
		Contents: []castingContent{{Parts: []castingPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode casting request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", r.baseURL, r.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build casting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("casting request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read casting response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("casting request failed: HTTP %d", resp.StatusCode)
	}

	var parsed castingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode casting response: %w", err)
	}

	text := ""
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				text = p.Text
				break
			}
		}
	}
	if text == "" {
		return nil, fmt.Errorf("casting service returned no suggestions")
	}

	recs, err := parseRecommendations(text)
	if err != nil {
		return nil, err
	}

	// Keep only suggestions that exist in the catalog.
	out := recs[:0]
	for _, rec := range recs {
		if _, ok := r.catalog.Lookup(rec.Voice); ok {
			out = append(out, rec)
		} else {
			log.Debug("dropping unknown casting suggestion", "voice", rec.Voice)
		}
	}

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// parseRecommendations extracts the JSON array from the model's reply,
// tolerating surrounding prose or a markdown fence.
func parseRecommendations(text string) ([]Recommendation, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("casting service returned no JSON list")
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(text[start:end+1]), &recs); err != nil {
		return nil, fmt.Errorf("failed to parse casting suggestions: %w", err)
	}
	return recs, nil
}
