package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/code-100-precent/VoiceDesk/pkg/confirm"
	"github.com/code-100-precent/VoiceDesk/pkg/crm"
	"github.com/code-100-precent/VoiceDesk/pkg/events"
	"github.com/code-100-precent/VoiceDesk/pkg/manual"
	"github.com/code-100-precent/VoiceDesk/pkg/suggest"
	"github.com/code-100-precent/VoiceDesk/pkg/transcribe"
)

// Phase of the consultation conversation. One inquiry travels
// idle → searching → responding → awaiting-confirm → executing → done;
// a new utterance at any point starts the cycle over.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseSearching       Phase = "searching"
	PhaseResponding      Phase = "responding"
	PhaseAwaitingConfirm Phase = "awaiting-confirm"
	PhaseExecuting       Phase = "executing"
	PhaseDone            Phase = "done"
)

// ackText is spoken when the customer declines the proposed action.
const ackText = "알겠습니다. 다른 문의사항이 있으시면 말씀해주세요."

// Searcher resolves a query to manual pages plus keywords.
type Searcher interface {
	Search(ctx context.Context, query string) (*manual.SearchOutcome, error)
}

// Suggester streams a Korean response draft.
type Suggester interface {
	Generate(ctx context.Context, req suggest.Request, onDelta func(string)) (string, error)
}

// Speaker voices a suggestion and reports playback completion once.
type Speaker interface {
	Speak(ctx context.Context, text string, onEnd func()) string
	Stop()
}

// Controller drives the speech-to-action pipeline: utterances come in,
// search and suggestion run, and on a spoken confirmation the planned CRM
// sequence executes. All phase decisions live here; the parts it composes
// stay oblivious of each other.
type Controller struct {
	search    Searcher
	suggester Suggester
	speaker   Speaker
	store     *crm.Store
	runner    *crm.Runner
	bus       *events.EventBus
	logger    *zap.Logger

	mu              sync.Mutex
	phase           Phase
	gen             uint64
	cancelSearch    context.CancelFunc
	pendingScreen   crm.ScreenType
	pendingKeywords []string
	lastQuery       string
	lastSuggestion  string
}

func NewController(
	search Searcher,
	suggester Suggester,
	speaker Speaker,
	store *crm.Store,
	runner *crm.Runner,
	bus *events.EventBus,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		search:    search,
		suggester: suggester,
		speaker:   speaker,
		store:     store,
		runner:    runner,
		bus:       bus,
		logger:    logger,
		phase:     PhaseIdle,
	}

	store.SetChangeCallback(func(state crm.State) {
		bus.PublishEvent(events.TypeCrmUpdated, map[string]interface{}{
			"state": state,
		}, "crm")
	})
	runner.SetCallbacks(func(label, elementID string) {
		bus.PublishEvent(events.TypeRunnerStep, map[string]interface{}{
			"label":     label,
			"elementId": elementID,
		}, "runner")
	}, c.handleRunnerIdle)

	return c
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// PendingAction describes the proposal currently awaiting confirmation.
func (c *Controller) PendingAction() (crm.ScreenType, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keywords := make([]string, len(c.pendingKeywords))
	copy(keywords, c.pendingKeywords)
	return c.pendingScreen, keywords
}

func (c *Controller) LastSuggestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSuggestion
}

// HandleUtterance routes one finalized utterance. During awaiting-confirm it
// is read as the customer's yes/no; anything unclassifiable becomes a fresh
// inquiry. In every other phase it always starts a fresh inquiry.
func (c *Controller) HandleUtterance(u transcribe.Utterance) {
	c.bus.PublishEvent(events.TypeUtterance, map[string]interface{}{
		"id":   u.ID,
		"text": u.Text,
	}, "transcribe")

	c.mu.Lock()
	awaiting := c.phase == PhaseAwaitingConfirm
	gen := c.gen
	c.mu.Unlock()

	if awaiting {
		switch confirm.Classify(u.Text) {
		case confirm.Yes:
			c.logger.Info("confirmation accepted", zap.String("text", u.Text))
			c.execute(gen)
			return
		case confirm.No:
			c.logger.Info("confirmation declined", zap.String("text", u.Text))
			c.decline(gen)
			return
		default:
			// Not an answer; treat it as a new inquiry.
		}
	}
	c.startInquiry(u.Text)
}

// SubmitQuery handles a typed query from the console UI the same way as a
// spoken utterance.
func (c *Controller) SubmitQuery(text string) {
	c.HandleUtterance(transcribe.Utterance{Text: text})
}

// Confirm resolves the pending proposal from a UI button instead of speech.
// Outside awaiting-confirm it does nothing.
func (c *Controller) Confirm(accepted bool) {
	c.mu.Lock()
	if c.phase != PhaseAwaitingConfirm {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	if accepted {
		c.execute(gen)
	} else {
		c.decline(gen)
	}
}

// Reset stops everything in flight and returns the console to idle with a
// pristine CRM document.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.gen++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	c.pendingScreen = ""
	c.pendingKeywords = nil
	c.lastQuery = ""
	c.lastSuggestion = ""
	c.mu.Unlock()

	c.speaker.Stop()
	c.runner.Stop()
	c.store.Reset()
	c.setPhase(PhaseIdle)
	c.logger.Info("console reset")
}

// startInquiry begins a fresh search cycle, preempting whatever was running.
func (c *Controller) startInquiry(query string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancelSearch != nil {
		c.cancelSearch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelSearch = cancel
	c.pendingScreen = ""
	c.pendingKeywords = nil
	c.lastQuery = query
	c.mu.Unlock()

	c.speaker.Stop()
	c.runner.Stop()
	c.setPhase(PhaseSearching)
	c.logger.Info("inquiry started", zap.String("query", query))

	go c.runSearch(ctx, gen, query)
}

func (c *Controller) runSearch(ctx context.Context, gen uint64, query string) {
	outcome, err := c.search.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("manual search failed", zap.Error(err))
		c.publishIfCurrent(gen, events.TypeError, map[string]interface{}{
			"message": "검색 중 오류가 발생했습니다.",
		}, "search")
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	if len(outcome.Results) == 0 {
		// Nothing to respond with; stay in searching until the customer
		// says something more specific.
		c.mu.Unlock()
		c.logger.Info("manual search returned no pages", zap.String("query", query))
		c.bus.PublishEvent(events.TypeSearchResults, map[string]interface{}{
			"results":  outcome.Results,
			"keywords": outcome.Keywords,
		}, "search")
		return
	}

	screen := crm.ResolveScreen(outcome.Keywords)
	c.pendingScreen = screen
	c.pendingKeywords = outcome.Keywords
	c.mu.Unlock()

	// New inquiry gets a pristine CRM document.
	c.store.Reset()

	c.bus.PublishEvent(events.TypeSearchResults, map[string]interface{}{
		"results":  outcome.Results,
		"keywords": outcome.Keywords,
		"screen":   screen,
	}, "search")
	c.setPhase(PhaseResponding)

	c.respond(ctx, gen, query, outcome, screen)
}

func (c *Controller) respond(ctx context.Context, gen uint64, query string, outcome *manual.SearchOutcome, screen crm.ScreenType) {
	contexts := make([]string, 0, 3)
	for i, r := range outcome.Results {
		if i == 3 {
			break
		}
		contexts = append(contexts, r.Page.Content)
	}

	text, err := c.suggester.Generate(ctx, suggest.Request{
		Query:       query,
		Contexts:    contexts,
		ScreenLabel: crm.ScreenLabels[screen],
		Keywords:    outcome.Keywords,
	}, func(delta string) {
		c.publishIfCurrent(gen, events.TypeSuggestionDelta, map[string]interface{}{
			"text": delta,
		}, "suggest")
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("suggestion failed", zap.Error(err))
		c.publishIfCurrent(gen, events.TypeError, map[string]interface{}{
			"message": "응답 생성 중 오류가 발생했습니다.",
		}, "suggest")
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.lastSuggestion = text
	c.mu.Unlock()

	c.bus.PublishEvent(events.TypeSuggestionDone, map[string]interface{}{
		"text": text,
	}, "suggest")

	c.speaker.Speak(ctx, text, func() {
		c.mu.Lock()
		if c.gen != gen || c.phase != PhaseResponding {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.setPhase(PhaseAwaitingConfirm)
	})
}

// execute runs the planned action sequence for the confirmed proposal. The
// phase and generation are re-validated atomically with the transition so an
// answer to an already-superseded proposal never acts on the new inquiry.
func (c *Controller) execute(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.phase != PhaseAwaitingConfirm {
		c.mu.Unlock()
		return
	}
	screen := c.pendingScreen
	seq := crm.BuildSequence(screen, c.pendingKeywords)
	prev := c.phase
	next := PhaseExecuting
	if seq == nil {
		next = PhaseDone
	}
	c.phase = next
	if seq != nil {
		c.runner.Run(seq)
	}
	c.mu.Unlock()

	if seq == nil {
		c.logger.Warn("no action sequence for screen", zap.String("screen", string(screen)))
	}
	c.announcePhase(prev, next)
}

// decline acknowledges a "no" and closes the inquiry without acting.
func (c *Controller) decline(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.phase != PhaseAwaitingConfirm {
		c.mu.Unlock()
		return
	}
	prev := c.phase
	c.phase = PhaseDone
	c.mu.Unlock()

	c.announcePhase(prev, PhaseDone)
	c.speaker.Speak(context.Background(), ackText, nil)
	c.bus.PublishEvent(events.TypeSuggestionDone, map[string]interface{}{
		"text": ackText,
	}, "suggest")
}

// handleRunnerIdle fires when the runner finishes or is stopped. Only a
// finished execution with at least one completed step closes the inquiry.
func (c *Controller) handleRunnerIdle() {
	c.mu.Lock()
	executing := c.phase == PhaseExecuting
	c.mu.Unlock()

	if executing && len(c.runner.CompletedSteps()) > 0 {
		c.setPhase(PhaseDone)
	}
}

func (c *Controller) setPhase(next Phase) {
	c.mu.Lock()
	if c.phase == next {
		c.mu.Unlock()
		return
	}
	prev := c.phase
	c.phase = next
	c.mu.Unlock()

	c.announcePhase(prev, next)
}

func (c *Controller) announcePhase(prev, next Phase) {
	c.logger.Info("phase changed", zap.String("from", string(prev)), zap.String("to", string(next)))
	c.bus.PublishEvent(events.TypePhaseChanged, map[string]interface{}{
		"phase":    string(next),
		"previous": string(prev),
	}, "console")
}

func (c *Controller) publishIfCurrent(gen uint64, eventType string, data map[string]interface{}, source string) {
	c.mu.Lock()
	stale := c.gen != gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.bus.PublishEvent(eventType, data, source)
}
