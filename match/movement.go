package match

const (
	// NearBallFactor 视野半径 = NearBallFactor × speed（不是每回合的步数预算）
	NearBallFactor = 5
	// 球门区：距离底线 GoalZoneDepth 以内，且 |Y-32| ≤ GoalZoneBand
	GoalZoneDepth = 20
	GoalZoneBand  = 16
)

// chasers 固定的追球手，无论距离多远都会跑向球
var chasers = map[int]bool{5: true, 6: true, 10: true, 11: true}

// IsChaser 是否为追球手
func IsChaser(id int) bool {
	return chasers[id]
}

// TowardsBall 跑向球：预算足够时直接到达球的位置并返回消耗的距离，
// 否则用全部预算向球靠近
func TowardsBall(ball, cur Point, budget int) (Point, int) {
	dist := cur.Manhattan(ball)
	if budget >= dist {
		return ball, dist
	}
	return DirectedWalk(ball, cur, budget), budget
}

// DirectedWalk 朝目标逐步移动：两个轴都不同时斜走（消耗 2），
// 只剩一个轴不同时沿该轴走（消耗 1）；预算耗尽或到达目标即停止，不会越过目标
func DirectedWalk(dest, cur Point, budget int) Point {
	for budget > 0 && cur != dest {
		switch {
		case cur.X == dest.X:
			cur.Y += stepToward(cur.Y, dest.Y)
			budget--
		case cur.Y == dest.Y:
			cur.X += stepToward(cur.X, dest.X)
			budget--
		case budget == 1:
			// 剩 1 点预算不够斜走，只走 X
			cur.X += stepToward(cur.X, dest.X)
			budget--
		default:
			cur.X += stepToward(cur.X, dest.X)
			cur.Y += stepToward(cur.Y, dest.Y)
			budget -= 2
		}
	}
	return cur
}

func stepToward(from, to int) int {
	if from > to {
		return -1
	}
	return 1
}

// NearBall 球是否在视野半径内
func NearBall(pos, ball Point, speed int) bool {
	return pos.Manhattan(ball) < NearBallFactor*speed
}

// IsOffenseSide 球是否位于该球员的进攻半场
func IsOffenseSide(id, ballX, round int) bool {
	if AttackAnchor(id, round).X == FieldLength {
		return ballX > HalfLine
	}
	return ballX <= HalfLine
}

// InGoalZone 是否已经站在 anchor 所在球门前的区域内
func InGoalZone(p, anchor Point) bool {
	if abs(p.Y-GoalY) > GoalZoneBand {
		return false
	}
	if anchor.X == 0 {
		return p.X <= GoalZoneDepth
	}
	return p.X >= FieldLength-GoalZoneDepth
}

// OffenseDirection 不在进攻球门区时向进攻球门移动，否则原地不动
func OffenseDirection(id, round int, cur Point, speed int) Point {
	return holdOrWalk(AttackAnchor(id, round), cur, speed)
}

// DefenseDirection 不在防守球门区时回撤到本方球门，否则原地不动
func DefenseDirection(id, round int, cur Point, speed int) Point {
	return holdOrWalk(DefenseAnchor(id, round), cur, speed)
}

func holdOrWalk(anchor, cur Point, speed int) Point {
	if InGoalZone(cur, anchor) {
		return cur
	}
	return DirectedWalk(anchor, cur, speed)
}

// RunStrategy 每回合的跑位决策：
// 追球手总是跑向球；其他人球在视野内时跑向球，否则按球所在半场进攻或回防
func RunStrategy(id, round int, ball, cur Point, speed int) Point {
	if IsChaser(id) || NearBall(cur, ball, speed) {
		next, _ := TowardsBall(ball, cur, speed)
		return next
	}
	if IsOffenseSide(id, ball.X, round) {
		return OffenseDirection(id, round, cur, speed)
	}
	return DefenseDirection(id, round, cur, speed)
}
