package match

import (
	"context"
	"fmt"
)

// Player 球员参与者：每回合 等待球坐标 → 决策跑位 → 发送报告
type Player struct {
	ID int
	Attributes

	net *Network
	rng Rand

	// 跨回合保存的状态
	prev      Point
	pos       Point
	reached   bool
	challenge int
}

// NewPlayer 按阵容行创建球员
func NewPlayer(entry RosterEntry, net *Network, rng Rand) *Player {
	return &Player{
		ID:         entry.ID,
		Attributes: entry.Attributes,
		net:        net,
		rng:        rng,
		prev:       entry.Start,
		pos:        entry.Start,
		challenge:  NoChallenge,
	}
}

// Pos 当前位置
func (p *Player) Pos() Point { return p.pos }

// Team 所属队伍
func (p *Player) Team() Team { return TeamOf(p.ID) }

// beginRound 用上回合的位置重置本回合的临时状态
func (p *Player) beginRound() {
	p.prev = p.pos
	p.reached = false
	p.challenge = NoChallenge
}

// Decide 根据已知的球坐标完成本回合决策，返回发给持球协调者和另一协调者的报告
func (p *Player) Decide(round int, ball Point) (owner, other PlayerReport) {
	p.beginRound()
	p.pos = RunStrategy(p.ID, round, ball, p.prev, p.Speed)

	report := PlayerReport{
		Pos:        p.pos,
		ID:         p.ID,
		Challenge:  NoChallenge,
		Intent:     IntentNone,
		ShootSkill: p.Shooting,
		Round:      round,
	}
	if p.pos != ball {
		// 没到球：两边收到同一份报告
		return report, report
	}

	p.reached = true
	p.challenge = (p.rng.Intn(10) + 1) * p.Dribbling
	report.Challenge = p.challenge
	dist := p.pos.Manhattan(AttackAnchor(p.ID, round))
	if ShotProbability(dist, p.Shooting) > ShootThreshold {
		report.Intent = IntentScore
	} else {
		report.Intent = IntentPass
	}
	return report, report.sentinel()
}

// Trace 本回合的状态快照。球员不知道争抢结果，Won 与 Shot 由主协调者汇总时填写
func (p *Player) Trace(round int) PlayerTrace {
	return PlayerTrace{
		ID:        p.ID,
		Prev:      p.prev,
		Pos:       p.pos,
		Reached:   p.reached,
		Challenge: p.challenge,
		Shot:      NoPoint,
		Round:     round,
	}
}

// PlayRound 执行一个完整回合。第 0 回合不等待广播，直接使用开球点
func (p *Player) PlayRound(ctx context.Context, round int, ball Point) (Point, error) {
	if round > 0 {
		u, _, err := p.net.AwaitBall(ctx, p.ID)
		if err != nil {
			return ball, err
		}
		ball = u.Ball
	}

	owner, other := p.Decide(round, ball)
	h := OwningHalf(ball.X)
	if err := p.net.SendReport(ctx, h, owner); err != nil {
		return ball, fmt.Errorf("player %d: report to %s: %w", p.ID, h, err)
	}
	if err := p.net.SendReport(ctx, h.Peer(), other); err != nil {
		return ball, fmt.Errorf("player %d: report to %s: %w", p.ID, h.Peer(), err)
	}
	if err := p.net.SendTrace(ctx, p.Trace(round)); err != nil {
		return ball, fmt.Errorf("player %d: trace: %w", p.ID, err)
	}
	return ball, nil
}

// Run 跑完整场比赛
func (p *Player) Run(ctx context.Context, rounds int) error {
	ball := Center
	for round := 0; round < rounds; round++ {
		var err error
		if ball, err = p.PlayRound(ctx, round, ball); err != nil {
			return err
		}
	}
	return nil
}
