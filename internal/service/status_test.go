package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusLifecycle(t *testing.T) {
	store := NewRunStatusStore()

	_, ok := store.Latest()
	assert.False(t, ok)
	assert.False(t, store.IsRunning())

	store.Begin("run-1", true)
	assert.True(t, store.IsRunning())

	run, ok := store.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, PhaseIdle, run.Phase)
	assert.True(t, run.ClearFirst)
	assert.False(t, run.StartedAt.IsZero())

	store.SetPhase("run-1", PhaseFetchingCards)
	run, _ = store.Get("run-1")
	assert.Equal(t, PhaseFetchingCards, run.Phase)

	store.Complete("run-1", &SyncResult{ImportResult: ImportResult{Imported: 42}})
	run, _ = store.Get("run-1")
	assert.Equal(t, PhaseCompleted, run.Phase)
	require.NotNil(t, run.Result)
	assert.Equal(t, 42, run.Result.ImportResult.Imported)
	require.NotNil(t, run.FinishedAt)
	assert.False(t, store.IsRunning())
}

func TestRunStatusFail(t *testing.T) {
	store := NewRunStatusStore()
	store.Begin("run-1", false)
	store.Fail("run-1", "connection refused")

	run, ok := store.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, PhaseFailed, run.Phase)
	assert.Equal(t, "connection refused", run.Error)
	require.NotNil(t, run.FinishedAt)
	assert.False(t, store.IsRunning())
}

// 新运行顶替最近一次指针，旧运行仍可按runId查询
func TestRunStatusLatestSupersedes(t *testing.T) {
	store := NewRunStatusStore()
	store.Begin("run-1", true)
	store.Complete("run-1", &SyncResult{})
	store.Begin("run-2", false)

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, "run-2", latest.RunID)
	assert.True(t, store.IsRunning())

	old, ok := store.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, PhaseCompleted, old.Phase)
}

func TestRunStatusUnknownRun(t *testing.T) {
	store := NewRunStatusStore()
	_, ok := store.Get("no-such-run")
	assert.False(t, ok)

	// 未登记的runId更新是空操作
	store.SetPhase("no-such-run", PhaseLoading)
	store.Complete("no-such-run", nil)
	store.Fail("no-such-run", "x")
	_, ok = store.Get("no-such-run")
	assert.False(t, ok)
}

// Get返回值拷贝：持有的快照不随后续阶段推进变化
func TestRunStatusSnapshotIsolation(t *testing.T) {
	store := NewRunStatusStore()
	store.Begin("run-1", false)

	snapshot, _ := store.Get("run-1")
	store.SetPhase("run-1", PhaseLoading)

	assert.Equal(t, PhaseIdle, snapshot.Phase)
	current, _ := store.Get("run-1")
	assert.Equal(t, PhaseLoading, current.Phase)
}

func TestRunStatusConcurrentAccess(t *testing.T) {
	store := NewRunStatusStore()
	store.Begin("run-1", false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetPhase("run-1", PhaseLoading)
		}()
		go func() {
			defer wg.Done()
			store.Get("run-1")
			store.IsRunning()
		}()
	}
	wg.Wait()

	run, ok := store.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, PhaseLoading, run.Phase)
}

func TestPhaseTerminal(t *testing.T) {
	assert.True(t, PhaseCompleted.Terminal())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhaseIdle.Terminal())
	assert.False(t, PhaseLoading.Terminal())
}
