package server

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"soccermatch/match"
)

// MatchManager 管理多场比赛的生命周期
type MatchManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	latest   string

	ctx      context.Context
	trace    match.RoundSink
	defaults SessionOptions
}

var (
	defaultManager *MatchManager
	once           sync.Once
)

// GetMatchManager 单例比赛管理器
func GetMatchManager() *MatchManager {
	once.Do(func() {
		defaultManager = NewMatchManager(context.Background(), nil)
	})
	return defaultManager
}

// NewMatchManager 创建管理器；ctx 取消时所有比赛随之取消
func NewMatchManager(ctx context.Context, trace match.RoundSink) *MatchManager {
	return &MatchManager{
		sessions: make(map[string]*Session),
		ctx:      ctx,
		trace:    trace,
	}
}

// Configure 设置全局轨迹输出与默认参数，需在开始比赛前调用
func (m *MatchManager) Configure(ctx context.Context, trace match.RoundSink, defaults SessionOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	m.trace = trace
	m.defaults = defaults
}

// Defaults 默认开赛参数
func (m *MatchManager) Defaults() SessionOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaults
}

// StartMatch 创建并启动一场比赛
func (m *MatchManager) StartMatch(opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	s := NewSession(opts, m.trace)
	m.sessions[s.ID] = s
	m.latest = s.ID
	ctx := m.ctx
	m.mu.Unlock()

	if err := s.Start(ctx); err != nil {
		return s, fmt.Errorf("start match %s: %w", s.ID, err)
	}
	Log.Infof("match started: id=%s seed=%d interval=%v", s.ID, s.Info().Seed, opts.RoundInterval)
	return s, nil
}

// Get 按 id 取比赛
func (m *MatchManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMatch, id)
	}
	return s, nil
}

// Latest 最近开始的一场
func (m *MatchManager) Latest() (*Session, error) {
	m.mu.RLock()
	id := m.latest
	m.mu.RUnlock()
	if id == "" {
		return nil, fmt.Errorf("%w: no match started yet", ErrUnknownMatch)
	}
	return m.Get(id)
}

// List 所有比赛的概要，按开始时间排序
func (m *MatchManager) List() []SessionInfo {
	m.mu.RLock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Info())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}

// Stop 取消一场比赛
func (m *MatchManager) Stop(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Stop()
	return nil
}

// StopAll 取消全部比赛并等待它们退出
func (m *MatchManager) StopAll(ctx context.Context) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()
	for _, s := range sessions {
		s.Stop()
	}
	for _, s := range sessions {
		_, _ = s.Wait(ctx)
	}
}
