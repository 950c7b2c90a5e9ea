package suggest

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt(Request{
		Query:       "로밍 문의",
		ScreenLabel: "로밍 설정",
		Keywords:    []string{"로밍", "유럽"},
	})
	assert.Contains(t, prompt, "현재 CRM 화면: 로밍 설정")
	assert.Contains(t, prompt, "관련 키워드: 로밍, 유럽")
	assert.Contains(t, prompt, "200자 이내")
}

func TestBuildSystemPromptEmptyContext(t *testing.T) {
	prompt := buildSystemPrompt(Request{Query: "문의"})
	assert.Contains(t, prompt, "현재 CRM 화면: 없음")
	assert.Contains(t, prompt, "관련 키워드: 없음")
}

func TestBuildUserPromptLimitsContexts(t *testing.T) {
	prompt := buildUserPrompt(Request{
		Query:    "유럽 로밍 되나요",
		Contexts: []string{"첫째", "둘째", "셋째", "넷째"},
	})
	assert.Contains(t, prompt, "[매뉴얼 1]\n첫째")
	assert.Contains(t, prompt, "[매뉴얼 3]\n셋째")
	assert.NotContains(t, prompt, "넷째")
	assert.True(t, strings.HasPrefix(prompt, `고객 문의: "유럽 로밍 되나요"`))
}

func TestGenerateRequiresInput(t *testing.T) {
	c := NewClient(&Config{APIKey: "k", Model: "gpt-4o-mini"})
	_, err := c.Generate(context.Background(), Request{}, nil)
	assert.Error(t, err)
}

type fakeSynth struct {
	audio []byte
	err   error
	calls atomic.Int32
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls.Add(1)
	return f.audio, f.err
}

func TestSpeakerDeliversAudioAndFiresOnEnd(t *testing.T) {
	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	var gotID string
	var gotAudio []byte
	speaker := NewSpeaker(synth, func(id string, audio []byte) {
		gotID = id
		gotAudio = audio
	}, true, nil)

	var ends atomic.Int32
	id := speaker.Speak(context.Background(), "안내 드리겠습니다", func() { ends.Add(1) })

	require.Equal(t, gotID, id)
	assert.Equal(t, []byte("mp3-bytes"), gotAudio)
	assert.Equal(t, int32(0), ends.Load(), "onEnd waits for playback")

	speaker.NotifyEnded(id)
	assert.Equal(t, int32(1), ends.Load())

	// Duplicate end reports are ignored.
	speaker.NotifyEnded(id)
	assert.Equal(t, int32(1), ends.Load())
}

func TestSpeakerFallbackTimerFiresOnce(t *testing.T) {
	synth := &fakeSynth{audio: []byte("x")}
	speaker := NewSpeaker(synth, nil, true, nil)

	done := make(chan struct{})
	id := speaker.Speak(context.Background(), "", func() { close(done) })

	// Shortest possible estimate is still seconds out; force it via Notify.
	speaker.NotifyEnded(id)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onEnd never fired")
	}
}

func TestSpeakerSynthFailureStillCompletes(t *testing.T) {
	synth := &fakeSynth{err: errors.New("api down")}
	speaker := NewSpeaker(synth, nil, true, nil)

	fired := false
	speaker.Speak(context.Background(), "실패해도 진행", func() { fired = true })
	assert.True(t, fired, "flow must not stall when synthesis fails")
}

func TestSpeakerAutoSpeakDisabled(t *testing.T) {
	synth := &fakeSynth{audio: []byte("x")}
	speaker := NewSpeaker(synth, nil, false, nil)

	fired := false
	speaker.Speak(context.Background(), "음성 없이", func() { fired = true })
	assert.True(t, fired)
	assert.Equal(t, int32(0), synth.calls.Load(), "no synthesis when auto-speak is off")
}

func TestSpeakerStopCancelsPendingEnd(t *testing.T) {
	synth := &fakeSynth{audio: []byte("x")}
	speaker := NewSpeaker(synth, nil, true, nil)

	fired := false
	id := speaker.Speak(context.Background(), "취소 테스트", func() { fired = true })
	speaker.Stop()
	speaker.NotifyEnded(id)
	assert.False(t, fired)
}

func TestSpeakerNewUtteranceReplacesPending(t *testing.T) {
	synth := &fakeSynth{audio: []byte("x")}
	speaker := NewSpeaker(synth, nil, true, nil)

	var first, second atomic.Bool
	id1 := speaker.Speak(context.Background(), "첫 번째", func() { first.Store(true) })
	id2 := speaker.Speak(context.Background(), "두 번째", func() { second.Store(true) })

	speaker.NotifyEnded(id1)
	assert.False(t, first.Load(), "replaced utterance must not complete")
	speaker.NotifyEnded(id2)
	assert.True(t, second.Load())
}

func TestEstimatePlaybackScalesWithLength(t *testing.T) {
	short := estimatePlayback("네")
	long := estimatePlayback(strings.Repeat("안내 말씀드립니다 ", 10))
	assert.Greater(t, long, short)
}
