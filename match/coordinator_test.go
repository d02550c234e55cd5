package match

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

// idleReports 所有球员都未到球，站在远离两侧球门的位置
func idleReports(round int) [Players]PlayerReport {
	var out [Players]PlayerReport
	for s := range out {
		out[s] = PlayerReport{
			Pos:        Point{64, 60},
			ID:         playerID(s),
			Challenge:  NoChallenge,
			Intent:     IntentNone,
			ShootSkill: 5,
			Round:      round,
		}
	}
	return out
}

func withChallenge(reports [Players]PlayerReport, id, challenge int, intent ShotIntent, pos Point) [Players]PlayerReport {
	r := &reports[slot(id)]
	r.Challenge = challenge
	r.Intent = intent
	r.Pos = pos
	return reports
}

func TestPickWinnerHighestChallenge(t *testing.T) {
	reports := idleReports(0)
	reports = withChallenge(reports, 3, 20, IntentPass, Center)
	reports = withChallenge(reports, 8, 50, IntentPass, Center)
	reports = withChallenge(reports, 10, 10, IntentPass, Center)
	if got := PickWinner(strictRand{t}, reports); got != 8 {
		t.Fatalf("PickWinner = %d, want 8", got)
	}
}

func TestPickWinnerNoContenders(t *testing.T) {
	if got := PickWinner(strictRand{t}, idleReports(0)); got != -1 {
		t.Fatalf("PickWinner = %d, want -1", got)
	}
}

func TestPickWinnerSkipsSentinels(t *testing.T) {
	reports := idleReports(0)
	reports = withChallenge(reports, 4, 70, IntentPass, Center)
	reports[slot(4)] = reports[slot(4)].sentinel()
	reports = withChallenge(reports, 6, 5, IntentPass, Center)
	if got := PickWinner(strictRand{t}, reports); got != 6 {
		t.Fatalf("PickWinner = %d, want 6", got)
	}
}

func TestPickWinnerTwoWayTieFirstSeenWins(t *testing.T) {
	for i := 0; i < 50; i++ {
		reports := idleReports(0)
		reports = withChallenge(reports, 5, 30, IntentPass, Center)
		reports = withChallenge(reports, 9, 30, IntentPass, Center)
		if got := PickWinner(strictRand{t}, reports); got != 5 {
			t.Fatalf("PickWinner = %d, want 5", got)
		}
	}
}

func TestPickWinnerThreeWayTieIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	counts := map[int]int{}
	const trials = 3000
	for i := 0; i < trials; i++ {
		reports := idleReports(0)
		reports = withChallenge(reports, 2, 40, IntentPass, Center)
		reports = withChallenge(reports, 7, 40, IntentPass, Center)
		reports = withChallenge(reports, 11, 40, IntentPass, Center)
		counts[PickWinner(rng, reports)]++
	}
	if len(counts) != 3 {
		t.Fatalf("winners = %v, want exactly players 2, 7 and 11", counts)
	}
	for id, n := range counts {
		if id != 2 && id != 7 && id != 11 {
			t.Fatalf("unexpected winner %d", id)
		}
		if n < trials/4 || n > trials*5/12 {
			t.Fatalf("winner %d picked %d/%d times, not roughly uniform", id, n, trials)
		}
	}
}

func TestResolveWinnerOnAnchorScoresWithoutRoll(t *testing.T) {
	reports := withChallenge(idleReports(0), 8, 12, IntentPass, Point{0, 32})
	out := Resolve(strictRand{t}, 0, reports, Point{0, 32})
	if out.Points != 2 {
		t.Fatalf("points = %d, want 2", out.Points)
	}
	if out.Ball != Center {
		t.Fatalf("ball = %v, want center", out.Ball)
	}
	if out.Team != TeamAway || out.Winner != 8 || out.Shooter != 8 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestResolveCloseShotScoresTwo(t *testing.T) {
	pos := Point{120, 32}
	reports := withChallenge(idleReports(0), 3, 24, IntentScore, pos)
	out := Resolve(&scriptedRand{floats: []float64{0}}, 0, reports, pos)
	if out.Points != 2 || out.Ball != Center || out.Team != TeamHome {
		t.Fatalf("outcome = %+v, want 2 points for home and ball at center", out)
	}
	if out.ShotTarget != (Point{128, 32}) {
		t.Fatalf("shot target = %v", out.ShotTarget)
	}
}

func TestResolveLongShotScoresThree(t *testing.T) {
	pos := Point{100, 32}
	reports := withChallenge(idleReports(0), 3, 24, IntentScore, pos)
	out := Resolve(&scriptedRand{floats: []float64{0}}, 0, reports, pos)
	if out.Points != 3 {
		t.Fatalf("points = %d, want 3", out.Points)
	}
}

func TestResolveAttackDirectionFlipsAtHalfTime(t *testing.T) {
	pos := Point{10, 32}
	reports := withChallenge(idleReports(HalfTime), 3, 24, IntentScore, pos)
	out := Resolve(&scriptedRand{floats: []float64{0}}, HalfTime, reports, pos)
	if out.ShotTarget != (Point{0, 32}) || out.Points != 2 {
		t.Fatalf("outcome = %+v, want home shooting at the left goal", out)
	}
}

func TestResolveMissLeavesBallWhereItLands(t *testing.T) {
	pos := Point{60, 10}
	reports := withChallenge(idleReports(0), 4, 14, IntentScore, pos)
	rng := &scriptedRand{floats: []float64{0.999}, ints: []int{3, 0, 5, 1}}
	out := Resolve(rng, 0, reports, pos)
	if out.Points != 0 {
		t.Fatalf("points = %d, want 0", out.Points)
	}
	if want := (Point{126, 35}); out.Ball != want {
		t.Fatalf("ball = %v, want %v", out.Ball, want)
	}
}

func TestResolvePassGoesToClosestTeammate(t *testing.T) {
	reports := withChallenge(idleReports(0), 2, 30, IntentPass, Point{60, 32})
	reports[slot(3)].Pos = Point{80, 32}
	reports[slot(4)].Pos = Point{100, 30}
	// 客队球员更靠近也不算
	reports[slot(8)].Pos = Point{127, 32}
	out := Resolve(&scriptedRand{floats: []float64{0}}, 0, reports, Point{60, 32})
	if out.Winner != 2 || out.Shooter != 4 {
		t.Fatalf("winner/shooter = %d/%d, want 2/4", out.Winner, out.Shooter)
	}
	if out.ShotTarget != (Point{100, 30}) {
		t.Fatalf("shot target = %v, want teammate position", out.ShotTarget)
	}
	// 传球成功：球停在队友脚下，不得分
	if out.Ball != (Point{100, 30}) || out.Points != 0 {
		t.Fatalf("outcome = %+v, want ball at teammate and no points", out)
	}
	if out.Team != TeamHome {
		t.Fatalf("team = %d", out.Team)
	}
}

func TestResolveMissedPassScattersAroundTeammate(t *testing.T) {
	reports := withChallenge(idleReports(0), 2, 30, IntentPass, Point{60, 32})
	reports[slot(4)].Pos = Point{100, 30}
	// 失败：X 偏移 +2，Y 偏移 -1
	rng := &scriptedRand{floats: []float64{0.999}, ints: []int{3, 1, 1, 0}}
	out := Resolve(rng, 0, reports, Point{60, 32})
	if out.Shooter != 4 || out.Points != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if want := (Point{102, 29}); out.Ball != want {
		t.Fatalf("ball = %v, want %v", out.Ball, want)
	}
}

func TestResolvePassToTeammateOnGoalScoresTwo(t *testing.T) {
	reports := withChallenge(idleReports(0), 8, 30, IntentPass, Point{28, 32})
	reports[slot(9)].Pos = Point{0, 32}
	out := Resolve(&scriptedRand{floats: []float64{0}}, 0, reports, Point{28, 32})
	if out.Shooter != 9 || out.ShotTarget != (Point{0, 32}) {
		t.Fatalf("outcome = %+v, want pass to player 9 on the goal", out)
	}
	// 队友离球门距离 0 < 24：2 分，球回中圈
	if out.Points != 2 || out.Ball != Center || out.Team != TeamAway {
		t.Fatalf("outcome = %+v, want 2 points for away", out)
	}
}

func TestResolvePassIgnoresStaleTeammateReports(t *testing.T) {
	const round = 10
	reports := withChallenge(idleReports(round), 2, 30, IntentPass, Point{60, 32})
	reports[slot(3)].Pos = Point{80, 32}
	reports[slot(4)].Pos = Point{100, 30}
	reports[slot(4)].Round = round - 1
	out := Resolve(&scriptedRand{floats: []float64{0}}, round, reports, Point{60, 32})
	if out.Shooter != 3 {
		t.Fatalf("shooter = %d, want 3", out.Shooter)
	}
}

func TestResolvePassWithoutCloserTeammateShootsItself(t *testing.T) {
	reports := withChallenge(idleReports(0), 9, 30, IntentPass, Point{20, 30})
	out := Resolve(&scriptedRand{floats: []float64{0}}, 0, reports, Point{20, 30})
	if out.Shooter != 9 || out.ShotTarget != (Point{0, 32}) {
		t.Fatalf("outcome = %+v, want player 9 shooting at the left goal", out)
	}
	if out.Points != 2 || out.Team != TeamAway {
		t.Fatalf("outcome = %+v, want 2 points for away", out)
	}
}

func TestResolveNoWinnerKeepsBall(t *testing.T) {
	ball := Point{33, 44}
	out := Resolve(strictRand{t}, 5, idleReports(5), ball)
	if out.Winner != -1 || out.Ball != ball || out.Points != 0 || out.Team != NoTeam {
		t.Fatalf("outcome = %+v", out)
	}
}

// feedReports 模拟十名球员：向两个协调者各发一份报告，并把快照发给主协调者
func feedReports(t *testing.T, ctx context.Context, n *Network, owner Half, reports [Players]PlayerReport) {
	t.Helper()
	for _, r := range reports {
		other := r
		if r.Reached() {
			other = r.sentinel()
		}
		if err := n.SendReport(ctx, owner, r); err != nil {
			t.Fatalf("send report: %v", err)
		}
		if err := n.SendReport(ctx, owner.Peer(), other); err != nil {
			t.Fatalf("send report: %v", err)
		}
		tr := PlayerTrace{ID: r.ID, Pos: r.Pos, Reached: r.Reached(), Challenge: r.Challenge, Shot: NoPoint, Round: r.Round}
		if err := n.SendTrace(ctx, tr); err != nil {
			t.Fatalf("send trace: %v", err)
		}
	}
}

func TestCoordinatorsSyncAcrossHalves(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n := NewNetwork()
	var records []RoundRecord
	left := NewCoordinator(HalfLeft, n, &scriptedRand{floats: []float64{0}}, SinkFunc(func(r RoundRecord) {
		records = append(records, r)
	}), nil)
	right := NewCoordinator(HalfRight, n, strictRand{t}, nil, nil)

	// 第 0 回合球在中圈，左侧协调者持球；3 号到球后射门命中右侧球门
	reports := withChallenge(idleReports(0), 3, 16, IntentScore, Center)
	feedReports(t, ctx, n, HalfLeft, reports)

	errc := make(chan error, 1)
	go func() { errc <- right.PlayRound(ctx, 0) }()
	if err := left.PlayRound(ctx, 0); err != nil {
		t.Fatalf("left round: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("right round: %v", err)
	}

	if left.Ball() != right.Ball() {
		t.Fatalf("coordinators disagree on ball: %v vs %v", left.Ball(), right.Ball())
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Score != [2]int{3, 0} {
		t.Fatalf("score = %v, want [3 0]", rec.Score)
	}
	won := rec.Players[slot(3)]
	if !won.Won || won.Shot != (Point{128, 32}) {
		t.Fatalf("winner trace = %+v", won)
	}
	if rec.Owner != HalfLeft || rec.Contenders() != 1 || !rec.Scored() {
		t.Fatalf("record = %+v", rec)
	}
}

func TestCoordinatorRightOwnerPublishesBall(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n := NewNetwork()
	left := NewCoordinator(HalfLeft, n, strictRand{t}, nil, nil)
	right := NewCoordinator(HalfRight, n, strictRand{t}, nil, nil)
	ball := Point{100, 20}
	left.ball, right.ball = ball, ball

	errc := make(chan error, 2)
	go func() { errc <- right.PlayRound(ctx, 1) }()
	go func() { errc <- left.PlayRound(ctx, 1) }()

	for id := FirstPlayer; id <= LastPlayer; id++ {
		u, from, err := n.AwaitBall(ctx, id)
		if err != nil {
			t.Fatalf("await ball: %v", err)
		}
		if from != HalfRight || u.Ball != ball || u.Round != 1 {
			t.Fatalf("player %d got %+v from %s", id, u, from)
		}
	}
	feedReports(t, ctx, n, HalfRight, idleReports(1))
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil {
			t.Fatalf("round: %v", err)
		}
	}
	if left.Ball() != ball || right.Ball() != ball {
		t.Fatalf("ball moved without a winner: %v %v", left.Ball(), right.Ball())
	}
}
