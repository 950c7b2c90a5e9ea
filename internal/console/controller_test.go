package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-100-precent/VoiceDesk/pkg/crm"
	"github.com/code-100-precent/VoiceDesk/pkg/events"
	"github.com/code-100-precent/VoiceDesk/pkg/manual"
	"github.com/code-100-precent/VoiceDesk/pkg/suggest"
	"github.com/code-100-precent/VoiceDesk/pkg/transcribe"
)

type stubSearcher struct {
	mu       sync.Mutex
	outcome  *manual.SearchOutcome
	queries  []string
}

func (s *stubSearcher) Search(ctx context.Context, query string) (*manual.SearchOutcome, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	outcome := s.outcome
	s.mu.Unlock()
	if outcome == nil {
		return &manual.SearchOutcome{}, nil
	}
	return outcome, nil
}

func (s *stubSearcher) queryLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

type stubSuggester struct{ text string }

func (s *stubSuggester) Generate(ctx context.Context, req suggest.Request, onDelta func(string)) (string, error) {
	if onDelta != nil {
		onDelta(s.text)
	}
	return s.text, nil
}

// stubSpeaker completes playback synchronously.
type stubSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (s *stubSpeaker) Speak(ctx context.Context, text string, onEnd func()) string {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	if onEnd != nil {
		onEnd()
	}
	return "stub"
}

func (s *stubSpeaker) Stop() {}

func (s *stubSpeaker) spokenTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

func roamingOutcome() *manual.SearchOutcome {
	return &manual.SearchOutcome{
		Results: []manual.Result{
			{Page: manual.Page{ID: "p1", Content: "로밍 상품 안내"}, Similarity: 0.9},
			{Page: manual.Page{ID: "p2", Content: "로밍 신청 절차"}, Similarity: 0.7},
		},
		Keywords: []string{"로밍", "해외", "유럽"},
	}
}

func newTestController(t *testing.T, searcher Searcher) (*Controller, *crm.Store, *crm.Runner, *stubSpeaker, *events.EventBus) {
	t.Helper()
	store := crm.NewStore()
	runner := crm.NewRunner(store, nil)
	runner.SetTimeScale(0.01)
	speaker := &stubSpeaker{}
	bus := events.NewEventBus()
	c := NewController(searcher, &stubSuggester{text: "유럽 로밍 신청을 도와드릴까요?"}, speaker, store, runner, bus, nil)
	return c, store, runner, speaker, bus
}

func waitForPhase(t *testing.T, c *Controller, want Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Phase() == want
	}, 5*time.Second, 10*time.Millisecond, "expected phase %s, got %s", want, c.Phase())
}

func TestInquiryReachesAwaitingConfirm(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, _, _, speaker, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 갈 때 로밍 되나요")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	screen, keywords := c.PendingAction()
	assert.Equal(t, crm.ScreenRoaming, screen)
	assert.Equal(t, []string{"로밍", "해외", "유럽"}, keywords)
	assert.Equal(t, "유럽 로밍 신청을 도와드릴까요?", c.LastSuggestion())
	assert.Equal(t, []string{"유럽 로밍 신청을 도와드릴까요?"}, speaker.spokenTexts())
}

func TestSpokenYesExecutesSequence(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, _, _, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 갈 때 로밍 되나요")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	c.HandleUtterance(transcribe.Utterance{ID: "u2", Text: "네 해주세요"})
	waitForPhase(t, c, PhaseDone)

	st := store.Snapshot()
	assert.Equal(t, "유럽", st.Roaming.SelectedRegion)
	assert.Equal(t, crm.RoamingStatusApplied, st.Roaming.CurrentStatus)
	require.NotNil(t, st.Roaming.SelectedProduct)
	assert.Equal(t, 0, *st.Roaming.SelectedProduct)
}

func TestSpokenNoDeclines(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, _, speaker, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 갈 때 로밍 되나요")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	c.HandleUtterance(transcribe.Utterance{ID: "u2", Text: "아니요 괜찮아요"})
	waitForPhase(t, c, PhaseDone)

	// CRM untouched, acknowledgement spoken.
	assert.Equal(t, crm.RoamingStatusNone, store.Snapshot().Roaming.CurrentStatus)
	assert.Contains(t, speaker.spokenTexts(), "알겠습니다. 다른 문의사항이 있으시면 말씀해주세요.")
}

func TestUnclassifiableAnswerStartsFreshInquiry(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, _, _, _, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 갈 때 로밍 되나요")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	c.HandleUtterance(transcribe.Utterance{ID: "u2", Text: "요금제도 바꾸고 싶은데요"})
	waitForPhase(t, c, PhaseAwaitingConfirm)

	assert.Equal(t, []string{"유럽 갈 때 로밍 되나요", "요금제도 바꾸고 싶은데요"}, searcher.queryLog())
}

func TestConfirmButtonsMatchSpeech(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, _, _, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 로밍")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	c.Confirm(true)
	waitForPhase(t, c, PhaseDone)
	assert.Equal(t, crm.RoamingStatusApplied, store.Snapshot().Roaming.CurrentStatus)
}

func TestStaleAcceptDoesNotActOnNewInquiry(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, runner, _, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 갈 때 로밍 되나요")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	// A yes observed against the first proposal, raced by a new utterance
	// that supersedes it before the execution lands.
	c.mu.Lock()
	stale := c.gen
	c.mu.Unlock()

	c.HandleUtterance(transcribe.Utterance{ID: "u2", Text: "요금제도 바꾸고 싶은데요"})
	waitForPhase(t, c, PhaseAwaitingConfirm)

	c.execute(stale)
	assert.Equal(t, PhaseAwaitingConfirm, c.Phase())
	assert.False(t, runner.Running())
	assert.Equal(t, crm.RoamingStatusNone, store.Snapshot().Roaming.CurrentStatus)

	c.decline(stale)
	assert.Equal(t, PhaseAwaitingConfirm, c.Phase())

	// The current proposal still confirms normally.
	c.Confirm(true)
	waitForPhase(t, c, PhaseDone)
	assert.Equal(t, crm.RoamingStatusApplied, store.Snapshot().Roaming.CurrentStatus)
}

func TestConfirmOutsideAwaitingConfirmIsIgnored(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, _, _, _ := newTestController(t, searcher)

	c.Confirm(true)
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Equal(t, crm.RoamingStatusNone, store.Snapshot().Roaming.CurrentStatus)
}

func TestZeroResultsStaysSearching(t *testing.T) {
	searcher := &stubSearcher{outcome: &manual.SearchOutcome{Keywords: []string{"날씨"}}}
	c, _, _, _, _ := newTestController(t, searcher)

	c.SubmitQuery("오늘 날씨 어때요")
	waitForPhase(t, c, PhaseSearching)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, PhaseSearching, c.Phase())
}

func TestResetReturnsToIdle(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, store, _, _, _ := newTestController(t, searcher)

	c.SubmitQuery("유럽 로밍")
	waitForPhase(t, c, PhaseAwaitingConfirm)
	c.Confirm(true)
	waitForPhase(t, c, PhaseDone)

	c.Reset()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Equal(t, crm.InitialState(), store.Snapshot())

	screen, keywords := c.PendingAction()
	assert.Empty(t, string(screen))
	assert.Empty(t, keywords)
}

func TestPhaseEventsPublished(t *testing.T) {
	searcher := &stubSearcher{outcome: roamingOutcome()}
	c, _, _, _, bus := newTestController(t, searcher)

	var mu sync.Mutex
	var phases []string
	bus.Subscribe(events.TypePhaseChanged, func(e events.Event) {
		mu.Lock()
		phases = append(phases, e.Data["phase"].(string))
		mu.Unlock()
	})

	c.SubmitQuery("유럽 로밍")
	waitForPhase(t, c, PhaseAwaitingConfirm)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"searching", "responding", "awaiting-confirm"}, phases)
}
