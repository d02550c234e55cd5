package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soccermatch/match"
)

var (
	ErrUnknownMatch = errors.New("unknown match")
	ErrMatchRunning = errors.New("match already started")
)

// SessionState 比赛会话的生命周期
type SessionState string

const (
	StatePending   SessionState = "pending"
	StateRunning   SessionState = "running"
	StateFinished  SessionState = "finished"
	StateCancelled SessionState = "cancelled"
	StateFailed    SessionState = "failed"
)

// SessionOptions 开一场比赛的参数
type SessionOptions struct {
	Seed          int64         `json:"seed,omitempty"`
	RoundInterval time.Duration `json:"-"`
}

// Session 一场正在进行的比赛：持有比赛本体、指标、观众列表，
// 作为主协调者的日志协作者，每回合汇总一次并推送给观众
type Session struct {
	ID   string
	opts SessionOptions

	metrics *MatchMetrics
	trace   match.RoundSink
	log     *zap.SugaredLogger

	mu      sync.Mutex
	viewers map[ViewerID]*Viewer
	joins   []*Viewer      // 在下一个回合边界加入
	leaves  []leaveRequest // 在下一个回合边界移除
	last    *match.RoundRecord
	state   SessionState
	result  match.Result
	err     error
	seed    int64

	started   time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
}

// leaveRequest 只移除仍绑定在该连接上的观众，同名观众重连后旧连接的离开请求不生效
type leaveRequest struct {
	id   ViewerID
	conn *ClientConn
}

// SessionInfo 会话的只读概要
type SessionInfo struct {
	ID      string       `json:"id"`
	State   SessionState `json:"state"`
	Seed    int64        `json:"seed"`
	Round   int          `json:"round"`
	Score   [2]int       `json:"score"`
	Viewers int          `json:"viewers"`
	Started time.Time    `json:"started"`
	Error   string       `json:"error,omitempty"`
}

// FinalMessage 比赛结束时推送的最后一帧
type FinalMessage struct {
	Match  string       `json:"match" msgpack:"match"`
	State  SessionState `json:"state" msgpack:"state"`
	Result match.Result `json:"result" msgpack:"result"`
}

// matchScoped 可以按比赛区分输出的 sink
type matchScoped interface {
	ForMatch(id string) match.RoundSink
}

// NewSession 创建会话，初始化数据结构；trace 可为 nil
func NewSession(opts SessionOptions, trace match.RoundSink) *Session {
	if trace == nil {
		trace = match.SinkFunc(func(match.RoundRecord) {})
	}
	id := uuid.NewString()
	if scoped, ok := trace.(matchScoped); ok {
		trace = scoped.ForMatch(id)
	}
	return &Session{
		ID:      id,
		opts:    opts,
		metrics: &MatchMetrics{},
		trace:   trace,
		log:     Log.With("match", id),
		viewers: make(map[ViewerID]*Viewer),
		state:   StatePending,
		done:    make(chan struct{}),
	}
}

// Start 在后台运行比赛；同一会话只能启动一次
func (s *Session) Start(ctx context.Context) error {
	err := ErrMatchRunning
	s.startOnce.Do(func() {
		err = s.start(ctx)
	})
	return err
}

func (s *Session) start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	pacer := NewPacer(ctx, s.opts.RoundInterval, s)
	m, err := match.New(match.Config{
		Seed:   s.opts.Seed,
		Sink:   pacer,
		Logger: s.log,
	})
	if err != nil {
		cancel()
		s.finish(match.Result{}, err)
		return err
	}

	s.mu.Lock()
	s.state = StateRunning
	s.seed = m.Seed
	s.started = time.Now()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		defer pacer.Stop()
		res, err := m.Run(ctx)
		s.finish(res, err)
	}()
	return nil
}

// Record 主协调者每回合调用一次（日志协作者）：
// 更新指标 → 写轨迹 → 处理观众进出 → 广播本回合
func (s *Session) Record(rec match.RoundRecord) {
	s.metrics.Observe(rec)
	s.metrics.AddRound(time.Now().UnixNano())
	s.trace.Record(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processViewers()
	s.last = &rec
	s.broadcast(MsgRound, rec)
}

// processViewers 在回合边界应用挂起的加入与离开（调用方持锁）
func (s *Session) processViewers() {
	for _, v := range s.joins {
		if old, ok := s.viewers[v.ID]; ok && old.Conn != nil {
			old.Conn.Close()
		}
		s.viewers[v.ID] = v
	}
	s.joins = s.joins[:0]
	for _, l := range s.leaves {
		if v, ok := s.viewers[l.id]; ok && v.Conn == l.conn {
			if v.Conn != nil {
				v.Conn.Close()
			}
			delete(s.viewers, l.id)
		}
	}
	s.leaves = s.leaves[:0]
}

// broadcast 每种格式只编码一次，推送给全部观众（调用方持锁）
func (s *Session) broadcast(t string, payload any) {
	encoded := make(map[Format][]byte, 2)
	for _, v := range s.viewers {
		b, ok := encoded[v.Format]
		if !ok {
			var err error
			if b, err = Encode(v.Format, t, payload); err != nil {
				s.log.Errorf("encode %s frame: %v", v.Format, err)
				return
			}
			encoded[v.Format] = b
		}
		s.deliver(v, b)
	}
}

func (s *Session) deliver(v *Viewer, b []byte) {
	if v.Conn == nil {
		return
	}
	if v.Conn.Enqueue(v.Format, b) {
		s.metrics.IncFramesSent()
	} else {
		s.metrics.IncFramesDropped()
	}
}

// Join 观众加入。比赛已结束时直接推送最终结果并关闭连接
func (s *Session) Join(v *Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		s.sendFinal(v)
		if v.Conn != nil {
			v.Conn.Close()
		}
		return
	}
	s.joins = append(s.joins, v)
}

// RequestLeave 请求在回合边界移除观众，避免在广播过程中改动观众表。
// conn 为发起离开的连接
func (s *Session) RequestLeave(id ViewerID, conn *ClientConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedLocked() {
		return
	}
	s.leaves = append(s.leaves, leaveRequest{id: id, conn: conn})
}

// SendSnapshot 立即把最近一回合重发给指定观众
func (s *Session) SendSnapshot(id ViewerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[id]
	if !ok || s.last == nil {
		return
	}
	b, err := Encode(v.Format, MsgRound, *s.last)
	if err != nil {
		return
	}
	s.deliver(v, b)
}

// ErrorMessage 观众命令无法识别时回送的帧
type ErrorMessage struct {
	Error string `json:"error" msgpack:"error"`
}

// SendError 给指定观众回送错误帧
func (s *Session) SendError(id ViewerID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viewers[id]
	if !ok {
		return
	}
	b, err := Encode(v.Format, MsgError, ErrorMessage{Error: reason})
	if err != nil {
		return
	}
	s.deliver(v, b)
}

// Stop 取消比赛
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done 比赛结束后关闭
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait 等待比赛结束并返回结果
func (s *Session) Wait(ctx context.Context) (match.Result, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return match.Result{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// Metrics 指标
func (s *Session) Metrics() *MatchMetrics { return s.metrics }

// Info 会话概要
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := SessionInfo{
		ID:      s.ID,
		State:   s.state,
		Seed:    s.seed,
		Viewers: len(s.viewers) + len(s.joins),
		Started: s.started,
	}
	if s.last != nil {
		info.Round = s.last.Round
		info.Score = s.last.Score
	}
	if s.err != nil {
		info.Error = s.err.Error()
	}
	return info
}

// Viewers 当前观众
func (s *Session) Viewers() []ViewerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ViewerInfo, 0, len(s.viewers))
	for _, v := range s.viewers {
		out = append(out, ViewerInfo{ID: string(v.ID), Format: string(v.Format)})
	}
	return out
}

func (s *Session) finishedLocked() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// finish 记录结果，推送最终帧并断开所有观众
func (s *Session) finish(res match.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.err = err
	switch {
	case err == nil:
		s.state = StateFinished
	case errors.Is(err, context.Canceled):
		s.state = StateCancelled
	default:
		s.state = StateFailed
	}
	if s.state == StateFailed {
		s.log.Errorf("match failed: %v", err)
	} else {
		s.log.Infof("match %s: score=%v goals=%d", s.state, res.Score, res.Goals)
	}

	s.processViewers()
	for id, v := range s.viewers {
		s.sendFinal(v)
		if v.Conn != nil {
			v.Conn.Close()
		}
		delete(s.viewers, id)
	}
	close(s.done)
}

// sendFinal 推送最终结果（调用方持锁）
func (s *Session) sendFinal(v *Viewer) {
	msg := FinalMessage{Match: s.ID, State: s.state, Result: s.result}
	b, err := Encode(v.Format, MsgFinal, msg)
	if err != nil {
		return
	}
	s.deliver(v, b)
}
