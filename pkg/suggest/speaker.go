package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Synthesizer renders text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Sink receives synthesized audio for delivery to the console frontend.
type Sink func(utteranceID string, audio []byte)

// Speaker speaks suggestion texts and reports completion exactly once per
// utterance. Playback happens in the browser, so the end signal normally
// arrives over HTTP; a duration-estimate timer covers clients that never
// report back. Whichever fires first wins.
type Speaker struct {
	synth     Synthesizer
	sink      Sink
	logger    *zap.Logger
	autoSpeak bool

	mu        sync.Mutex
	currentID string
	onEnd     func()
	timer     *time.Timer
}

func NewSpeaker(synth Synthesizer, sink Sink, autoSpeak bool, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Speaker{synth: synth, sink: sink, autoSpeak: autoSpeak, logger: logger}
}

// estimatePlayback guesses how long the synthesized speech runs. Korean TTS
// output averages roughly six syllables a second; the padding absorbs
// network and decode latency.
func estimatePlayback(text string) time.Duration {
	chars := len([]rune(text))
	return time.Duration(chars)*170*time.Millisecond + 2*time.Second
}

// Speak synthesizes and delivers text, then invokes onEnd exactly once when
// playback finishes. When auto-speak is off, or synthesis fails, onEnd fires
// immediately so the conversation flow never stalls on audio.
func (s *Speaker) Speak(ctx context.Context, text string, onEnd func()) string {
	id := uuid.NewString()

	if !s.autoSpeak {
		if onEnd != nil {
			onEnd()
		}
		return id
	}

	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn("speech synthesis failed, continuing without audio", zap.Error(err))
		if onEnd != nil {
			onEnd()
		}
		return id
	}

	s.mu.Lock()
	s.cancelLocked()
	s.currentID = id
	s.onEnd = onEnd
	s.timer = time.AfterFunc(estimatePlayback(text), func() {
		s.finish(id)
	})
	s.mu.Unlock()

	if s.sink != nil {
		s.sink(id, audio)
	}
	s.logger.Info("speaking suggestion", zap.String("utteranceId", id), zap.Int("audioBytes", len(audio)))
	return id
}

// NotifyEnded reports that frontend playback of the given utterance is done.
// Stale or duplicate ids are ignored.
func (s *Speaker) NotifyEnded(utteranceID string) {
	s.finish(utteranceID)
}

// Stop abandons the pending utterance; its completion callback never fires.
func (s *Speaker) Stop() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
}

func (s *Speaker) finish(utteranceID string) {
	s.mu.Lock()
	if s.currentID != utteranceID || s.onEnd == nil {
		s.mu.Unlock()
		return
	}
	onEnd := s.onEnd
	s.cancelLocked()
	s.mu.Unlock()

	onEnd()
}

func (s *Speaker) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.currentID = ""
	s.onEnd = nil
}
