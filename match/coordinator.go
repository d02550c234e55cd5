package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Coordinator 场地协调者。两个实例代码相同，只按半场区分；
// 本回合球在哪个半场，哪个协调者就是球的唯一写者，另一个只持有缓存副本
type Coordinator struct {
	Half Half

	net  *Network
	rng  Rand
	sink RoundSink
	log  *zap.SugaredLogger

	ball   Point
	score  [2]int // 只有主协调者维护比分
	goals  int
	played int
}

// NewCoordinator 创建协调者；sink 只对主协调者（左半场）生效
func NewCoordinator(half Half, net *Network, rng Rand, sink RoundSink, log *zap.SugaredLogger) *Coordinator {
	if sink == nil {
		sink = nopSink{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Coordinator{
		Half: half,
		net:  net,
		rng:  rng,
		sink: sink,
		log:  log,
		ball: Center,
	}
}

// Primary 主协调者负责汇总比分和每回合日志
func (c *Coordinator) Primary() bool { return c.Half == HalfLeft }

// Ball 缓存的球坐标
func (c *Coordinator) Ball() Point { return c.ball }

// Score 当前比分（仅主协调者有效）
func (c *Coordinator) Score() [2]int { return c.score }

// Owns 本回合是否拥有球
func (c *Coordinator) Owns() bool { return OwningHalf(c.ball.X) == c.Half }

// PlayRound 一个回合：广播球（若持球）→ 收齐十份报告 → 裁决（若持球）→ 与对端同步 → 主协调者汇总日志
func (c *Coordinator) PlayRound(ctx context.Context, round int) error {
	start := c.ball
	owns := c.Owns()
	if owns && round > 0 {
		if err := c.net.PublishBall(ctx, c.Half, BallUpdate{Round: round, Ball: c.ball}); err != nil {
			return fmt.Errorf("coordinator %s: publish ball: %w", c.Half, err)
		}
	}

	// 不持球时也要收齐，只是不使用
	reports, err := c.net.CollectReports(ctx, c.Half)
	if err != nil {
		return fmt.Errorf("coordinator %s: collect reports: %w", c.Half, err)
	}

	var out ChallengeOutcome
	if owns {
		out = Resolve(c.rng, round, reports, c.ball)
		if err := c.net.SendOutcome(ctx, c.Half.Peer(), out); err != nil {
			return fmt.Errorf("coordinator %s: sync: %w", c.Half, err)
		}
	} else {
		if out, err = c.net.AwaitOutcome(ctx, c.Half); err != nil {
			return fmt.Errorf("coordinator %s: await sync: %w", c.Half, err)
		}
	}
	c.ball = out.Ball

	if !c.Primary() {
		return nil
	}
	traces, err := c.net.CollectTraces(ctx)
	if err != nil {
		return fmt.Errorf("coordinator %s: collect traces: %w", c.Half, err)
	}
	c.sink.Record(c.compose(round, start, OwningHalf(start.X), traces, out))
	return nil
}

// compose 把同步结果并入球员快照并更新比分
func (c *Coordinator) compose(round int, start Point, owner Half, traces [Players]PlayerTrace, out ChallengeOutcome) RoundRecord {
	if out.Team != NoTeam && out.Points > 0 {
		c.score[out.Team] += out.Points
		c.goals++
		c.log.Debugw("goal", "round", round, "team", out.Team, "points", out.Points,
			"winner", out.Winner, "shooter", out.Shooter, "score", c.score)
	}
	if out.Winner >= 0 {
		t := &traces[slot(out.Winner)]
		t.Won = true
		t.Shot = out.ShotTarget
	}
	return RoundRecord{
		Round:     round,
		Score:     c.score,
		BallStart: start,
		BallEnd:   out.Ball,
		Owner:     owner,
		Players:   traces,
		Outcome:   out,
	}
}

// Run 跑完整场比赛
func (c *Coordinator) Run(ctx context.Context, rounds int) error {
	for round := 0; round < rounds; round++ {
		if err := c.PlayRound(ctx, round); err != nil {
			return err
		}
		c.played++
	}
	return nil
}

// Played 已完成的回合数
func (c *Coordinator) Played() int { return c.played }

// PickWinner 争抢裁决：取抢球分最高者；之后与当前最高分相同的报告进入平局列表。
// 平局列表超过一人（即至少三人同分）时，在最先达到该分的球员和平局列表中均匀随机；
// 恰好两人同分时先出现者获胜。
// 抽签范围包含最先达到最高分的球员，而不只是平局列表，三人同分时三人机会均等
func PickWinner(rng Rand, reports [Players]PlayerReport) int {
	winner, best := -1, NoChallenge
	var ties []int
	for s, r := range reports {
		if !r.Reached() {
			continue
		}
		switch {
		case r.Challenge > best:
			best = r.Challenge
			winner = playerID(s)
			ties = ties[:0]
		case r.Challenge == best:
			ties = append(ties, playerID(s))
		}
	}
	if len(ties) > 1 {
		candidates := append([]int{winner}, ties...)
		winner = candidates[rng.Intn(len(candidates))]
	}
	return winner
}

// Resolve 持球协调者的裁决：选出赢球者，射门或传给更靠近球门的队友，计算落点与得分。
// 传球时 Shooter 为接球队友，ShotTarget 为队友位置
func Resolve(rng Rand, round int, reports [Players]PlayerReport, ball Point) ChallengeOutcome {
	winner := PickWinner(rng, reports)
	if winner < 0 {
		return noWinner(round, ball)
	}
	w := reports[slot(winner)]
	anchor := AttackAnchor(winner, round)
	out := ChallengeOutcome{
		Winner:     winner,
		Shooter:    winner,
		ShotTarget: anchor,
		Team:       TeamOf(winner),
		Round:      round,
	}

	// 赢球者已经站在球门上：直接 2 分，不掷骰子
	if w.Pos == anchor {
		out.Points = 2
		out.Ball = Center
		return out
	}

	// 传球：球踢向队友的位置，用队友的射门能力掷骰；只有落在球门线上才算进球
	distToGoal := w.Pos.Manhattan(anchor)
	skill, target := w.ShootSkill, anchor
	if w.Intent != IntentScore {
		if mate, ok := closerTeammate(round, reports, w, anchor); ok {
			out.Shooter = mate.ID
			out.ShotTarget = mate.Pos
			skill, target = mate.ShootSkill, mate.Pos
			distToGoal = mate.Pos.Manhattan(anchor)
		}
	}

	out.Ball = DetermineShot(rng, skill, w.Pos, target)
	if out.Ball.OnGoalLine() {
		if distToGoal < CloseRange {
			out.Points = 2
		} else {
			out.Points = 3
		}
		out.Ball = Center
	}
	return out
}

// closerTeammate 找同队中本回合位置比传球者更接近球门的最近队友。
// 这里只采信回合号与当前回合一致的报告
func closerTeammate(round int, reports [Players]PlayerReport, passer PlayerReport, anchor Point) (PlayerReport, bool) {
	best := passer.Pos.Manhattan(anchor)
	var mate PlayerReport
	found := false
	from, to := Teammates(TeamOf(passer.ID))
	for id := from; id <= to; id++ {
		r := reports[slot(id)]
		if r.IsSentinel() || r.Round != round {
			continue
		}
		if d := r.Pos.Manhattan(anchor); d < best {
			best = d
			mate = r
			found = true
		}
	}
	return mate, found
}
