package handlers

import (
	"encoding/binary"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/code-100-precent/VoiceDesk/pkg/events"
	"github.com/code-100-precent/VoiceDesk/pkg/resample"
	"github.com/code-100-precent/VoiceDesk/pkg/transcribe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	// Demo console; the UI is served from the same origin in production
	// setups and from a dev server locally.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// audioHandler accepts browser microphone audio over a websocket: binary
// frames of little-endian float32 samples at the capture rate given by the
// `rate` query parameter, falling back to the configured mic rate. Frames are
// resampled to the transcription rate and forwarded to the live session.
type audioHandler struct {
	session     *transcribe.Session
	defaultRate int
	logger      *zap.Logger
}

func newAudioHandler(session *transcribe.Session, defaultRate int, logger *zap.Logger) *audioHandler {
	if defaultRate <= 0 {
		defaultRate = 48000
	}
	return &audioHandler{session: session, defaultRate: defaultRate, logger: logger}
}

func (h *audioHandler) Handle(c *gin.Context) {
	rate := cast.ToInt(c.Query("rate"))
	if rate <= 0 {
		rate = h.defaultRate
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade audio websocket failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("audio stream connected", zap.Int("captureRate", rate))

	pump := resample.NewPump(rate, 64)
	defer pump.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range pump.Frames() {
			h.session.SendAudio(frame)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Error("audio websocket error", zap.Error(err))
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		if msgType != websocket.BinaryMessage || len(data) < 4 {
			continue
		}
		pump.Push(bytesToFloat32(data))
	}

	pump.Close()
	<-done
	if dropped := pump.Dropped(); dropped > 0 {
		h.logger.Warn("audio frames dropped during session", zap.Uint64("dropped", dropped))
	}
	h.logger.Info("audio stream disconnected")
}

func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}

// eventFeed pushes console events to connected UIs. Every bus event goes to
// every connection; a connection that cannot keep up loses events rather
// than stalling the pipeline.
type eventFeed struct {
	logger *zap.Logger

	mu    sync.RWMutex
	conns map[string]chan events.Event
}

func newEventFeed(bus *events.EventBus, logger *zap.Logger) *eventFeed {
	f := &eventFeed{logger: logger, conns: make(map[string]chan events.Event)}
	bus.Subscribe("*", f.broadcast)
	return f
}

func (f *eventFeed) broadcast(event events.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for id, ch := range f.conns {
		select {
		case ch <- event:
		default:
			f.logger.Warn("event feed backlog, dropping event",
				zap.String("connection", id), zap.String("type", event.Type))
		}
	}
}

func (f *eventFeed) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.logger.Error("upgrade event websocket failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	ch := make(chan events.Event, 256)
	f.mu.Lock()
	f.conns[id] = ch
	f.mu.Unlock()

	f.logger.Info("event feed connected", zap.String("connection", id))

	defer func() {
		f.mu.Lock()
		delete(f.conns, id)
		f.mu.Unlock()
		conn.Close()
		f.logger.Info("event feed disconnected", zap.String("connection", id))
	}()

	closeChan := make(chan struct{})
	go func() {
		defer close(closeChan)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event := <-ch:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-closeChan:
			return
		}
	}
}
