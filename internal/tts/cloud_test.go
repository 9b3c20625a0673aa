package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeBackend serves canned generateContent responses and records requests.
func fakeBackend(t *testing.T, respond func(w http.ResponseWriter, req generateRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Errorf("missing api key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		respond(w, req)
	}))
}

func audioResponse(payload string) generateResponse {
	return generateResponse{
		Candidates: []struct {
			Content content `json:"content"`
		}{
			{Content: content{Parts: []part{{
				InlineData: &inlineData{MimeType: "audio/pcm;rate=24000", Data: payload},
			}}}},
		},
	}
}

func TestCloudSynthesizeSuccess(t *testing.T) {
	// 480 frames of silence: 960 bytes of s16le PCM.
	payload := base64.StdEncoding.EncodeToString(make([]byte, 960))

	var gotVoice string
	srv := fakeBackend(t, func(w http.ResponseWriter, req generateRequest) {
		gotVoice = req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "Hello world" {
			t.Errorf("unexpected script in request: %+v", req.Contents)
		}
		_ = json.NewEncoder(w).Encode(audioResponse(payload))
	})
	defer srv.Close()

	client := NewCloudClient("test-key", WithBaseURL(srv.URL))
	buf, err := client.Synthesize(context.Background(), "Hello world", "Kore")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if gotVoice != "Kore" {
		t.Errorf("voice sent = %q, want Kore", gotVoice)
	}
	if buf.SampleRate != CloudSampleRate {
		t.Errorf("sample rate = %d, want %d", buf.SampleRate, CloudSampleRate)
	}
	if buf.NumChannels() != CloudChannels {
		t.Errorf("channels = %d, want %d", buf.NumChannels(), CloudChannels)
	}
	if buf.Frames() != 480 {
		t.Errorf("frames = %d, want 480", buf.Frames())
	}
}

func TestCloudSynthesizeNoAudio(t *testing.T) {
	tests := []struct {
		name string
		body generateResponse
	}{
		{"empty response", generateResponse{}},
		{
			"text-only rejection",
			generateResponse{
				Candidates: []struct {
					Content content `json:"content"`
				}{
					{Content: content{Parts: []part{{Text: "request was blocked"}}}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeBackend(t, func(w http.ResponseWriter, _ generateRequest) {
				_ = json.NewEncoder(w).Encode(tt.body)
			})
			defer srv.Close()

			client := NewCloudClient("test-key", WithBaseURL(srv.URL))
			_, err := client.Synthesize(context.Background(), "Hello world", "Kore")
			if !errors.Is(err, ErrSynthesisFailed) {
				t.Errorf("Synthesize() error = %v, want ErrSynthesisFailed", err)
			}
		})
	}
}

func TestCloudSynthesizeHTTPError(t *testing.T) {
	srv := fakeBackend(t, func(w http.ResponseWriter, _ generateRequest) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
	})
	defer srv.Close()

	client := NewCloudClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Synthesize(context.Background(), "Hello world", "Kore")
	if err == nil {
		t.Fatalf("Synthesize() succeeded with HTTP 403")
	}
}

func TestCloudSynthesizeMalformedPayload(t *testing.T) {
	srv := fakeBackend(t, func(w http.ResponseWriter, _ generateRequest) {
		_ = json.NewEncoder(w).Encode(audioResponse("not!!base64!!"))
	})
	defer srv.Close()

	client := NewCloudClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Synthesize(context.Background(), "Hello world", "Kore")
	if err == nil {
		t.Fatalf("Synthesize() succeeded with malformed payload")
	}
}
