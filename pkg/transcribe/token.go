package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Token is a single-use ephemeral credential for one realtime connection.
// It is never cached: each session start mints a fresh one.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer mints ephemeral transcription session tokens so the long-lived
// API key never travels to the websocket layer.
type TokenIssuer struct {
	config     *Config
	httpClient *http.Client
}

func NewTokenIssuer(config *Config) *TokenIssuer {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TokenIssuer{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenRequest struct {
	InputAudioFormat        string                `json:"input_audio_format"`
	InputAudioTranscription transcriptionSettings `json:"input_audio_transcription"`
	TurnDetection           turnDetection         `json:"turn_detection"`
	InputAudioNoiseReduct   noiseReduction        `json:"input_audio_noise_reduction"`
}

type transcriptionSettings struct {
	Model    string `json:"model"`
	Language string `json:"language,omitempty"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

type noiseReduction struct {
	Type string `json:"type"`
}

type tokenResponse struct {
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
}

// Issue mints a fresh token configured for PCM16 input with server-side
// voice activity detection. Fails fast; the caller decides whether to retry.
func (t *TokenIssuer) Issue(ctx context.Context) (*Token, error) {
	if t.config.APIKey == "" {
		return nil, errors.New("api key is empty")
	}

	silenceMs := int(t.config.SilenceDuration / time.Millisecond)
	if silenceMs <= 0 {
		silenceMs = 500
	}

	body, err := json.Marshal(tokenRequest{
		InputAudioFormat: "pcm16",
		InputAudioTranscription: transcriptionSettings{
			Model:    t.config.Model,
			Language: t.config.Language,
		},
		TurnDetection: turnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: silenceMs,
		},
		InputAudioNoiseReduct: noiseReduction{Type: "near_field"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal token request err: %w", err)
	}

	url := t.config.BaseURL + "/realtime/transcription_sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request err: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request token err: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response err: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse token response err: %w", err)
	}
	if parsed.ClientSecret.Value == "" {
		return nil, errors.New("token response missing client secret")
	}

	return &Token{
		Value:     parsed.ClientSecret.Value,
		ExpiresAt: time.Unix(parsed.ClientSecret.ExpiresAt, 0),
	}, nil
}
