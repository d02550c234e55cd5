package server

import (
	"context"
	"time"

	"soccermatch/match"
)

// Pacer 限制回合推进速度：每交出一条回合记录后等待下一个 Tick。
// 主协调者阻塞在这里时，其余参与者也会在下一回合的消息上等待，整场比赛随之放慢
type Pacer struct {
	next   match.RoundSink
	ctx    context.Context
	ticker *time.Ticker
}

// NewPacer interval ≤ 0 时不限速
func NewPacer(ctx context.Context, interval time.Duration, next match.RoundSink) *Pacer {
	p := &Pacer{next: next, ctx: ctx}
	if interval > 0 {
		p.ticker = time.NewTicker(interval)
	}
	return p
}

func (p *Pacer) Record(rec match.RoundRecord) {
	p.next.Record(rec)
	if p.ticker == nil {
		return
	}
	select {
	case <-p.ticker.C:
	case <-p.ctx.Done():
	}
}

// Stop 释放 ticker
func (p *Pacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
