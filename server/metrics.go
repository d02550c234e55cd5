package server

import (
	"sync/atomic"

	"soccermatch/match"
)

// MatchMetrics 记录比赛运行期的关键指标（用于监控与调试）
type MatchMetrics struct {
	RoundsPlayed   int64 // 已完成回合数
	Challenges     int64 // 有人赢得争抢的回合数
	Contested      int64 // 两人及以上同时到球的回合数
	Passes         int64 // 传给队友后起脚的次数
	Goals          int64 // 进球数
	HomePoints     int64 // 主队得分
	AwayPoints     int64 // 客队得分
	FramesSent     int64 // 推送给观众的帧数
	FramesDropped  int64 // 因观众发送队列满被丢弃的帧数
	TotalRoundNs   int64 // 回合累计耗时（纳秒）
	lastRoundStamp int64
}

// Observe 按一条回合记录累加计数
func (m *MatchMetrics) Observe(rec match.RoundRecord) {
	atomic.AddInt64(&m.RoundsPlayed, 1)
	if rec.Outcome.Winner >= 0 {
		atomic.AddInt64(&m.Challenges, 1)
		if rec.Outcome.Shooter != rec.Outcome.Winner {
			atomic.AddInt64(&m.Passes, 1)
		}
	}
	if rec.Contenders() > 1 {
		atomic.AddInt64(&m.Contested, 1)
	}
	if rec.Scored() {
		atomic.AddInt64(&m.Goals, 1)
		if rec.Outcome.Team == match.TeamHome {
			atomic.AddInt64(&m.HomePoints, int64(rec.Outcome.Points))
		} else {
			atomic.AddInt64(&m.AwayPoints, int64(rec.Outcome.Points))
		}
	}
}

// AddRound 记录两条回合记录之间的耗时
func (m *MatchMetrics) AddRound(nowNs int64) {
	prev := atomic.SwapInt64(&m.lastRoundStamp, nowNs)
	if prev > 0 {
		atomic.AddInt64(&m.TotalRoundNs, nowNs-prev)
	}
}

func (m *MatchMetrics) IncFramesSent()    { atomic.AddInt64(&m.FramesSent, 1) }
func (m *MatchMetrics) IncFramesDropped() { atomic.AddInt64(&m.FramesDropped, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *MatchMetrics) Snapshot() map[string]any {
	rounds := atomic.LoadInt64(&m.RoundsPlayed)
	total := atomic.LoadInt64(&m.TotalRoundNs)
	var avgMs float64
	if rounds > 1 {
		avgMs = float64(total) / float64(rounds-1) / 1e6
	}
	return map[string]any{
		"rounds_played":  rounds,
		"challenges":     atomic.LoadInt64(&m.Challenges),
		"contested":      atomic.LoadInt64(&m.Contested),
		"passes":         atomic.LoadInt64(&m.Passes),
		"goals":          atomic.LoadInt64(&m.Goals),
		"home_points":    atomic.LoadInt64(&m.HomePoints),
		"away_points":    atomic.LoadInt64(&m.AwayPoints),
		"frames_sent":    atomic.LoadInt64(&m.FramesSent),
		"frames_dropped": atomic.LoadInt64(&m.FramesDropped),
		"avg_round_ms":   avgMs,
	}
}
