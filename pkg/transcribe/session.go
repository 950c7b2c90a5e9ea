package transcribe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Callbacks observers for session lifecycle and transcripts. All callbacks
// fire synchronously from the session's event goroutine, so utterances are
// delivered in server order and never concurrently.
type Callbacks struct {
	OnStatus    func(Status)
	OnPartial   func(itemID, text string)
	OnUtterance func(Utterance)
	OnError     func(error)
}

// Session owns one live transcription connection: it mints a token, dials
// the realtime endpoint, pumps server events and accumulates the transcript.
// Start/Stop may be called repeatedly; each Start is a fresh connection.
type Session struct {
	config *Config
	issuer *TokenIssuer
	logger *zap.Logger

	mu         sync.Mutex
	active     bool
	gen        uint64
	status     Status
	cli        *client
	partials   map[string]string
	transcript []Utterance

	callbacks Callbacks
	wg        sync.WaitGroup
}

func NewSession(config *Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		config:   config,
		issuer:   NewTokenIssuer(config),
		logger:   logger,
		status:   StatusIdle,
		partials: make(map[string]string),
	}
}

// SetCallbacks must be called before Start.
func (s *Session) SetCallbacks(cb Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = cb
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Transcript returns the utterances finalized since the last Start.
func (s *Session) Transcript() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Utterance, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Start mints a fresh token and connects. Returns an error when the session
// is already active.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return errors.New("session already active")
	}
	s.active = true
	s.gen++
	gen := s.gen
	s.partials = make(map[string]string)
	s.transcript = nil
	s.setStatusLocked(StatusConnecting)
	s.mu.Unlock()

	token, err := s.issuer.Issue(ctx)
	if err != nil {
		s.fail(gen, err)
		return err
	}

	cli := newClient(s.config, token.Value)
	cli.setErrorCallback(func(connErr error) {
		s.fail(gen, connErr)
	})
	if err := cli.connect(ctx); err != nil {
		s.fail(gen, err)
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		// Stopped while dialing.
		s.mu.Unlock()
		cli.close()
		return errors.New("session stopped during connect")
	}
	s.cli = cli
	s.setStatusLocked(StatusListening)
	s.mu.Unlock()

	s.logger.Info("transcription session started")

	s.wg.Add(1)
	go s.pump(cli, gen)
	return nil
}

// Stop tears the connection down. No callback fires after Stop returns.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.gen++
	cli := s.cli
	s.cli = nil
	s.setStatusLocked(StatusIdle)
	s.mu.Unlock()

	if cli != nil {
		cli.close()
	}
	s.wg.Wait()
	s.logger.Info("transcription session stopped")
}

// SendAudio forwards one PCM16 frame to the live connection. Frames sent
// while inactive are dropped silently.
func (s *Session) SendAudio(frame []int16) {
	s.mu.Lock()
	cli := s.cli
	s.mu.Unlock()
	if cli == nil {
		return
	}
	if err := cli.sendAudio(frame); err != nil && !errors.Is(err, ErrClientClosed) {
		s.logger.Warn("drop audio frame", zap.Error(err))
	}
}

func (s *Session) pump(cli *client, gen uint64) {
	defer s.wg.Done()
	for {
		evt, err := cli.receiveEvent()
		if err != nil {
			return
		}
		s.handleEvent(evt, gen)
	}
}

func (s *Session) handleEvent(evt serverEvent, gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}

	switch evt.Type {
	case evtSpeechStarted:
		s.setStatusLocked(StatusSpeaking)
		s.mu.Unlock()

	case evtSpeechStopped:
		s.setStatusLocked(StatusListening)
		s.mu.Unlock()

	case evtTranscriptDelta:
		s.partials[evt.ItemID] += evt.Delta
		text := s.partials[evt.ItemID]
		onPartial := s.callbacks.OnPartial
		s.mu.Unlock()
		if onPartial != nil {
			onPartial(evt.ItemID, text)
		}

	case evtTranscriptCompleted:
		text := strings.TrimSpace(evt.Transcript)
		delete(s.partials, evt.ItemID)
		if text == "" {
			s.mu.Unlock()
			return
		}
		id := evt.ItemID
		if id == "" {
			id = uuid.NewString()
		}
		utt := Utterance{ID: id, Text: text, Timestamp: time.Now()}
		s.transcript = append(s.transcript, utt)
		s.setStatusLocked(StatusListening)
		onUtterance := s.callbacks.OnUtterance
		s.mu.Unlock()
		s.logger.Info("utterance finalized", zap.String("id", id), zap.Int("chars", len(text)))
		if onUtterance != nil {
			onUtterance(utt)
		}

	case evtError:
		msg := "realtime transcription error"
		if evt.Error != nil && evt.Error.Message != "" {
			msg = evt.Error.Message
		}
		s.mu.Unlock()
		s.fail(gen, errors.New(msg))

	default:
		s.mu.Unlock()
	}
}

// fail moves the session to the error state exactly once per generation and
// tears the connection down.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.gen++
	cli := s.cli
	s.cli = nil
	s.setStatusLocked(StatusError)
	onError := s.callbacks.OnError
	s.mu.Unlock()

	s.logger.Error("transcription session failed", zap.Error(err))
	if cli != nil {
		go cli.close()
	}
	if onError != nil {
		onError(err)
	}
}

// setStatusLocked updates the status and notifies asynchronously. Status is
// advisory UI state; only utterance delivery needs strict ordering.
func (s *Session) setStatusLocked(next Status) {
	if s.status == next {
		return
	}
	s.status = next
	if cb := s.callbacks.OnStatus; cb != nil {
		go cb(next)
	}
}
