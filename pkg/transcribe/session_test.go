package transcribe

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/realtime/transcription_sessions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pcm16", body.InputAudioFormat)
		assert.Equal(t, "server_vad", body.TurnDetection.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"client_secret":{"value":"ephemeral-token","expires_at":1700000000}}`))
	}))
}

// fakeRealtime is a scripted websocket endpoint. It records received audio
// events and plays back the configured server events after the first frame.
type fakeRealtime struct {
	srv    *httptest.Server
	script []serverEvent

	mu       sync.Mutex
	received [][]byte
	protocol string
}

func newFakeRealtime(t *testing.T, script []serverEvent) *fakeRealtime {
	t.Helper()
	f := &fakeRealtime{script: script}
	upgrader := websocket.Upgrader{
		Subprotocols: []string{"realtime"},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.protocol = r.Header.Get("Sec-WebSocket-Protocol")
		f.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Wait for the first audio frame, then play the script.
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var evt appendEvent
		if json.Unmarshal(msg, &evt) == nil && evt.Type == evtAudioAppend {
			if audio, decErr := base64.StdEncoding.DecodeString(evt.Audio); decErr == nil {
				f.mu.Lock()
				f.received = append(f.received, audio)
				f.mu.Unlock()
			}
		}
		for _, se := range f.script {
			if err := conn.WriteJSON(se); err != nil {
				return
			}
		}
		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	return f
}

func (f *fakeRealtime) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeRealtime) receivedAudio() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.received))
	copy(out, f.received)
	return out
}

func (f *fakeRealtime) negotiatedProtocol() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.protocol
}

func (f *fakeRealtime) close() { f.srv.Close() }

func testConfig(tokenURL, realtimeURL string) *Config {
	return &Config{
		BaseURL:         tokenURL,
		RealtimeURL:     realtimeURL,
		APIKey:          "test-key",
		Model:           "gpt-4o-mini-transcribe",
		Language:        "ko",
		SilenceDuration: 500 * time.Millisecond,
	}
}

func TestTokenIssuer(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	issuer := NewTokenIssuer(testConfig(tokenSrv.URL, ""))
	token, err := issuer.Issue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ephemeral-token", token.Value)
	assert.Equal(t, int64(1700000000), token.ExpiresAt.Unix())
}

func TestTokenIssuerHonorsRequestTimeout(t *testing.T) {
	cfg := testConfig("http://unused", "")
	cfg.RequestTimeout = 3 * time.Second
	assert.Equal(t, 3*time.Second, NewTokenIssuer(cfg).httpClient.Timeout)

	// Unset falls back to the built-in bound.
	assert.Equal(t, 15*time.Second, NewTokenIssuer(testConfig("http://unused", "")).httpClient.Timeout)
}

func TestTokenIssuerRejectsMissingKey(t *testing.T) {
	issuer := NewTokenIssuer(&Config{BaseURL: "http://unused"})
	_, err := issuer.Issue(context.Background())
	assert.Error(t, err)
}

func TestTokenIssuerSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	issuer := NewTokenIssuer(testConfig(srv.URL, ""))
	_, err := issuer.Issue(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSessionDeliversUtterances(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	fake := newFakeRealtime(t, []serverEvent{
		{Type: evtSpeechStarted},
		{Type: evtTranscriptDelta, ItemID: "item-1", Delta: "유럽 갈 때"},
		{Type: evtTranscriptDelta, ItemID: "item-1", Delta: " 로밍 되나요"},
		{Type: evtSpeechStopped},
		{Type: evtTranscriptCompleted, ItemID: "item-1", Transcript: "유럽 갈 때 로밍 되나요  "},
		{Type: evtTranscriptCompleted, ItemID: "item-2", Transcript: "   "},
	})
	defer fake.close()

	session := NewSession(testConfig(tokenSrv.URL, fake.url()), nil)

	var mu sync.Mutex
	var partials []string
	utterances := make(chan Utterance, 4)
	session.SetCallbacks(Callbacks{
		OnPartial: func(itemID, text string) {
			mu.Lock()
			partials = append(partials, text)
			mu.Unlock()
		},
		OnUtterance: func(u Utterance) { utterances <- u },
	})

	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	session.SendAudio([]int16{0, 100, -100, 32767})

	select {
	case u := <-utterances:
		assert.Equal(t, "item-1", u.ID)
		assert.Equal(t, "유럽 갈 때 로밍 되나요", u.Text, "finalized text is trimmed")
	case <-time.After(5 * time.Second):
		t.Fatal("no utterance delivered")
	}

	// Whitespace-only transcript never becomes an utterance.
	select {
	case u := <-utterances:
		t.Fatalf("unexpected extra utterance: %+v", u)
	case <-time.After(200 * time.Millisecond):
	}

	mu.Lock()
	assert.Equal(t, []string{"유럽 갈 때", "유럽 갈 때 로밍 되나요"}, partials)
	mu.Unlock()

	transcript := session.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "유럽 갈 때 로밍 되나요", transcript[0].Text)

	// The frame reached the wire as little-endian PCM16.
	received := fake.receivedAudio()
	require.Len(t, received, 1)
	assert.Equal(t, []byte{0x00, 0x00, 0x64, 0x00, 0x9c, 0xff, 0xff, 0x7f}, received[0])

	assert.Contains(t, fake.negotiatedProtocol(), "openai-insecure-api-key.ephemeral-token")
}

func TestSessionRejectsDoubleStart(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()
	fake := newFakeRealtime(t, nil)
	defer fake.close()

	session := NewSession(testConfig(tokenSrv.URL, fake.url()), nil)
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()

	assert.Error(t, session.Start(context.Background()))
}

func TestSessionErrorEvent(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()
	fake := newFakeRealtime(t, []serverEvent{
		{Type: evtError, Error: &struct {
			Message string `json:"message"`
		}{Message: "session expired"}},
	})
	defer fake.close()

	session := NewSession(testConfig(tokenSrv.URL, fake.url()), nil)
	errs := make(chan error, 1)
	session.SetCallbacks(Callbacks{OnError: func(err error) { errs <- err }})

	require.NoError(t, session.Start(context.Background()))
	session.SendAudio([]int16{1, 2, 3})

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "session expired")
	case <-time.After(5 * time.Second):
		t.Fatal("error callback never fired")
	}
	assert.Equal(t, StatusError, session.Status())
}

func TestSessionRestartClearsTranscript(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()
	fake := newFakeRealtime(t, []serverEvent{
		{Type: evtTranscriptCompleted, ItemID: "item-1", Transcript: "요금제 바꿔줘"},
	})
	defer fake.close()

	session := NewSession(testConfig(tokenSrv.URL, fake.url()), nil)
	got := make(chan Utterance, 1)
	session.SetCallbacks(Callbacks{OnUtterance: func(u Utterance) { got <- u }})

	require.NoError(t, session.Start(context.Background()))
	session.SendAudio([]int16{1})
	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no utterance")
	}
	session.Stop()
	require.Len(t, session.Transcript(), 1)

	require.NoError(t, session.Start(context.Background()))
	defer session.Stop()
	assert.Empty(t, session.Transcript())
}