package crm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) (*Runner, *Store) {
	t.Helper()
	store := NewStore()
	r := NewRunner(store, nil)
	r.SetTimeScale(0.01)
	return r, store
}

func TestRunnerExecutesSequenceInOrder(t *testing.T) {
	r, store := newTestRunner(t)

	var mu sync.Mutex
	var steps []string
	idle := make(chan struct{})
	r.SetCallbacks(func(label, elementID string) {
		mu.Lock()
		steps = append(steps, elementID)
		mu.Unlock()
	}, func() { close(idle) })

	seq := BuildSequence(ScreenRoaming, []string{"유럽", "로밍"})
	require.NotNil(t, seq)
	r.Run(seq)

	select {
	case <-idle:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"region-유럽", "product-0", "apply-roaming"}, steps)

	st := store.Snapshot()
	assert.Equal(t, "유럽", st.Roaming.SelectedRegion)
	assert.Equal(t, RoamingStatusApplied, st.Roaming.CurrentStatus)
	assert.False(t, r.Running())
	assert.Empty(t, store.Highlighted())
	assert.Len(t, r.CompletedSteps(), 3)
}

func TestRunnerStopCancelsRemainingSteps(t *testing.T) {
	store := NewStore()
	r := NewRunner(store, nil)
	// Real delays so Stop lands mid-sequence.
	seq := BuildSequence(ScreenLostStolen, []string{"분실"})
	require.NotNil(t, seq)

	r.Run(seq)
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	assert.False(t, r.Running())
	assert.Empty(t, r.CompletedSteps())
	assert.Empty(t, store.Highlighted())

	// No command may fire after Stop returns.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, LostDeviceNormal, store.Snapshot().LostStolen.DeviceStatus)
}

func TestRunnerRunPreemptsPreviousSequence(t *testing.T) {
	store := NewStore()
	r := NewRunner(store, nil)

	idle := make(chan struct{})
	r.SetCallbacks(nil, func() { close(idle) })

	slow := BuildSequence(ScreenCancellation, []string{"해지"})
	require.NotNil(t, slow)
	r.Run(slow)
	time.Sleep(20 * time.Millisecond)

	r.SetTimeScale(0.01)
	fast := BuildSequence(ScreenPlanChange, []string{"요금제", "올려"})
	require.NotNil(t, fast)
	r.Run(fast)

	select {
	case <-idle:
	case <-time.After(5 * time.Second):
		t.Fatal("replacement sequence did not finish")
	}

	st := store.Snapshot()
	assert.Equal(t, PlanStatusChanged, st.PlanChange.ChangeStatus)
	// The preempted cancellation flow must not have reached its commit.
	assert.Equal(t, CancelStatusNone, st.Cancellation.CancelStatus)
}

func TestRunnerPreemptionBlocksStaleDispatch(t *testing.T) {
	cancelSeq := &Sequence{
		Steps:      []Step{{ElementID: "apply-cancel", Action: ActionClick, Label: "해지 처리"}},
		Dispatches: []Command{{Type: CmdCancelProcess}},
	}
	planSeq := &Sequence{
		Steps:      []Step{{ElementID: "apply-plan", Action: ActionClick, Label: "요금제 변경"}},
		Dispatches: []Command{{Type: CmdPlanChange}},
	}

	for i := 0; i < 200; i++ {
		store := NewStore()
		r := NewRunner(store, nil)
		r.SetTimeScale(0.001)

		r.Run(cancelSeq)
		// Jitter the preemption point around the first walk's dispatch moment.
		time.Sleep(time.Duration(i%80) * 10 * time.Microsecond)
		r.Run(planSeq)
		after := store.Snapshot().Cancellation.CancelStatus

		require.Eventually(t, func() bool {
			return store.Snapshot().PlanChange.ChangeStatus == PlanStatusChanged
		}, 2*time.Second, time.Millisecond)

		// Whatever the first walk committed before being superseded is final
		// once the second Run returns; a late commit may never land.
		assert.Equal(t, after, store.Snapshot().Cancellation.CancelStatus,
			"iteration %d: superseded command fired after replacement run started", i)
	}
}

func TestRunnerIgnoresEmptySequence(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Run(nil)
	r.Run(&Sequence{})
	assert.False(t, r.Running())
}

func TestRunnerCurrentLabelDuringRun(t *testing.T) {
	store := NewStore()
	r := NewRunner(store, nil)

	seq := BuildSequence(ScreenDataAddon, []string{"데이터", "리필"})
	require.NotNil(t, seq)
	r.Run(seq)

	assert.Eventually(t, func() bool {
		return r.CurrentLabel() != ""
	}, 2*time.Second, 10*time.Millisecond)
	r.Stop()
}
