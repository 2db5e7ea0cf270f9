package service

import (
	"sync"
	"time"
)

// RunPhase 同步运行阶段（顺序推进，不回退）
type RunPhase string

const (
	PhaseIdle           RunPhase = "idle"
	PhaseClearing       RunPhase = "clearing"
	PhaseFetchingCards  RunPhase = "fetching-cards"
	PhaseFetchingPrices RunPhase = "fetching-prices"
	PhaseMerging        RunPhase = "merging"
	PhaseLoading        RunPhase = "loading"
	PhaseCompleted      RunPhase = "completed"
	PhaseFailed         RunPhase = "failed"
)

// Terminal 是否为终态
func (p RunPhase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// RunStatus 单次同步运行的状态快照
type RunStatus struct {
	RunID      string      `json:"runId"`
	Phase      RunPhase    `json:"phase"`
	ClearFirst bool        `json:"clearFirst"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
	Result     *SyncResult `json:"result,omitempty"` // 成功终态才有
	Error      string      `json:"error,omitempty"`  // 失败终态才有
}

// RunStatusStore 运行状态存储：按runId索引+最近一次指针，
// 触发接口与状态查询接口共用同一实例（替代模块级可变全局状态）。
// 生命周期：运行开始时创建，每次阶段切换更新，被下一次运行顶替前一直保留。
type RunStatusStore struct {
	mu       sync.RWMutex
	runs     map[string]*RunStatus
	latestID string
}

// NewRunStatusStore 创建 RunStatusStore
func NewRunStatusStore() *RunStatusStore {
	return &RunStatusStore{runs: make(map[string]*RunStatus)}
}

// Begin 登记一次新运行并置为最近一次
func (s *RunStatusStore) Begin(runID string, clearFirst bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = &RunStatus{
		RunID:      runID,
		Phase:      PhaseIdle,
		ClearFirst: clearFirst,
		StartedAt:  time.Now(),
	}
	s.latestID = runID
}

// SetPhase 推进运行阶段
func (s *RunStatusStore) SetPhase(runID string, phase RunPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[runID]; ok {
		run.Phase = phase
	}
}

// Complete 标记运行成功并挂结果
func (s *RunStatusStore) Complete(runID string, result *SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[runID]; ok {
		now := time.Now()
		run.Phase = PhaseCompleted
		run.Result = result
		run.FinishedAt = &now
	}
}

// Fail 标记运行失败并记录原始错误信息
func (s *RunStatusStore) Fail(runID string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[runID]; ok {
		now := time.Now()
		run.Phase = PhaseFailed
		run.Error = errMsg
		run.FinishedAt = &now
	}
}

// Get 按runId取状态快照（值拷贝，调用方持有的副本不随后续更新变化）
func (s *RunStatusStore) Get(runID string) (RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	return *run, true
}

// Latest 取最近一次运行的状态快照
func (s *RunStatusStore) Latest() (RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestID == "" {
		return RunStatus{}, false
	}
	run, ok := s.runs[s.latestID]
	if !ok {
		return RunStatus{}, false
	}
	return *run, true
}

// IsRunning 最近一次运行是否仍在进行（进程内快速挡板，跨实例互斥靠锁表）
func (s *RunStatusStore) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestID == "" {
		return false
	}
	run, ok := s.runs[s.latestID]
	return ok && !run.Phase.Terminal()
}
