package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/code-100-precent/VoiceDesk/pkg/config"
	"github.com/code-100-precent/VoiceDesk/pkg/events"
)

func TestAudioHandlerDefaultRate(t *testing.T) {
	assert.Equal(t, 16000, newAudioHandler(nil, 16000, zap.NewNop()).defaultRate)
	assert.Equal(t, 48000, newAudioHandler(nil, 0, zap.NewNop()).defaultRate)
	assert.Equal(t, 48000, newAudioHandler(nil, -1, zap.NewNop()).defaultRate)
}

func TestNewHandlersUsesConfiguredMicRate(t *testing.T) {
	prev := config.GlobalConfig
	t.Cleanup(func() { config.GlobalConfig = prev })

	config.GlobalConfig = &config.Config{Console: config.ConsoleConfig{InputSampleRate: 16000}}
	h := NewHandlers(nil, nil, nil, nil, nil, nil, events.NewEventBus(), nil)
	assert.Equal(t, 16000, h.audio.defaultRate)

	config.GlobalConfig = nil
	h = NewHandlers(nil, nil, nil, nil, nil, nil, events.NewEventBus(), nil)
	assert.Equal(t, 48000, h.audio.defaultRate)
}
