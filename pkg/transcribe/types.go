package transcribe

import "time"

// Status of the transcription session as surfaced to the console UI.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusListening  Status = "listening"
	StatusSpeaking   Status = "speaking"
	StatusError      Status = "error"
)

// Utterance one finalized speech segment.
type Utterance struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Config for one transcription session.
type Config struct {
	// BaseURL is the REST endpoint prefix used to mint session tokens,
	// e.g. "https://api.openai.com/v1".
	BaseURL string
	// RealtimeURL is the websocket endpoint audio is streamed to.
	RealtimeURL string
	APIKey      string
	Model       string
	Language    string
	// SilenceDuration is the server-side VAD window that closes a turn.
	SilenceDuration time.Duration
	// RequestTimeout bounds the token-minting HTTP call.
	RequestTimeout time.Duration
}

// serverEvent is the subset of realtime events the session reacts to.
// Unknown types are ignored on purpose.
type serverEvent struct {
	Type       string `json:"type"`
	ItemID     string `json:"item_id"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const (
	evtSpeechStarted        = "input_audio_buffer.speech_started"
	evtSpeechStopped        = "input_audio_buffer.speech_stopped"
	evtTranscriptDelta      = "conversation.item.input_audio_transcription.delta"
	evtTranscriptCompleted  = "conversation.item.input_audio_transcription.completed"
	evtError                = "error"
	evtAudioAppend          = "input_audio_buffer.append"
)
