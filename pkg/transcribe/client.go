package transcribe

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var ErrClientClosed = errors.New("transcribe client closed")

// client streams PCM16 frames to the realtime transcription endpoint and
// surfaces server events. One client serves exactly one websocket session.
type client struct {
	config *Config
	token  string

	conn     *websocket.Conn
	mu       sync.Mutex
	isClosed bool

	audioChan chan []int16
	eventChan chan serverEvent
	closeChan chan struct{}

	writeLoopStopChan chan struct{}
	readLoopStopChan  chan struct{}

	writeTimeout time.Duration
	readTimeout  time.Duration

	errorCallback func(error)
}

func newClient(config *Config, token string) *client {
	return &client{
		config:            config,
		token:             token,
		audioChan:         make(chan []int16, 100),
		eventChan:         make(chan serverEvent, 100),
		closeChan:         make(chan struct{}),
		writeLoopStopChan: make(chan struct{}, 1),
		readLoopStopChan:  make(chan struct{}, 1),
		writeTimeout:      10 * time.Second,
		readTimeout:       60 * time.Second,
	}
}

func (c *client) setErrorCallback(callback func(error)) {
	c.errorCallback = callback
}

func (c *client) isNormalCloseError(err error) bool {
	var closeError *websocket.CloseError
	if errors.As(err, &closeError) {
		switch closeError.Code {
		case websocket.CloseNormalClosure,
			websocket.CloseGoingAway,
			websocket.CloseNoStatusReceived:
			return true
		}
	}
	if strings.Contains(err.Error(), "use of closed network connection") {
		return true
	}
	return false
}

func (c *client) logError(err error, operation string) {
	logrus.WithFields(logrus.Fields{
		"error":     err.Error(),
		"operation": operation,
	}).Error("transcribe client: connection error")
}

// connect dials the realtime endpoint. The ephemeral token rides in the
// websocket subprotocol list, which is how the endpoint authenticates
// browserless clients without an Authorization header.
func (c *client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return errors.New("client is closed")
	}
	if c.config.RealtimeURL == "" {
		return errors.New("realtime url is empty")
	}

	dialer := websocket.Dialer{
		Subprotocols: []string{
			"realtime",
			"openai-insecure-api-key." + c.token,
			"openai-beta.realtime-v1",
		},
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.config.RealtimeURL, nil)
	if err != nil {
		if ctx.Err() == context.Canceled || strings.Contains(err.Error(), "operation was canceled") {
			return ctx.Err()
		}
		return fmt.Errorf("dial realtime websocket err: %w", err)
	}
	c.conn = conn

	go c.readLoop()
	go c.writeLoop()

	return nil
}

type appendEvent struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

func (c *client) writeLoop() {
	defer func() {
		logrus.Info("transcribe client: writeLoop exited")
		c.writeLoopStopChan <- struct{}{}
	}()

	for {
		select {
		case <-c.closeChan:
			return
		case frame, ok := <-c.audioChan:
			if !ok {
				return
			}
			payload := make([]byte, len(frame)*2)
			for i, s := range frame {
				binary.LittleEndian.PutUint16(payload[i*2:], uint16(s))
			}
			msg, err := json.Marshal(appendEvent{
				Type:  evtAudioAppend,
				Audio: base64.StdEncoding.EncodeToString(payload),
			})
			if err != nil {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				if !c.isNormalCloseError(err) && c.errorCallback != nil {
					c.logError(err, "writeLoop")
					c.errorCallback(err)
				}
				return
			}
		}
	}
}

func (c *client) readLoop() {
	defer func() {
		logrus.Info("transcribe client: readLoop exited")
		c.readLoopStopChan <- struct{}{}
	}()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !c.isNormalCloseError(err) && c.errorCallback != nil {
				c.logError(err, "readLoop")
				c.errorCallback(err)
			}
			return
		}

		var evt serverEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			logrus.WithField("error", err.Error()).Warn("transcribe client: skipping unparsable event")
			continue
		}

		select {
		case <-c.closeChan:
			return
		case c.eventChan <- evt:
		default:
			logrus.Warn("transcribe client: eventChan is full, dropping event")
		}
	}
}

// sendAudio queues one PCM16 frame for delivery.
func (c *client) sendAudio(frame []int16) error {
	select {
	case c.audioChan <- frame:
		return nil
	case <-c.closeChan:
		return ErrClientClosed
	}
}

// receiveEvent blocks until the next server event or client close.
func (c *client) receiveEvent() (serverEvent, error) {
	select {
	case evt := <-c.eventChan:
		return evt, nil
	case <-c.closeChan:
		return serverEvent{}, ErrClientClosed
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}
	c.isClosed = true

	close(c.closeChan)

	timeout := time.After(1 * time.Second)
	select {
	case <-c.writeLoopStopChan:
	case <-timeout:
	}
	select {
	case <-c.readLoopStopChan:
	case <-timeout:
	}

	if c.conn != nil {
		_ = c.conn.Close()
	}
}
