package match

const (
	// 球场尺寸：X ∈ [0,128]，Y ∈ [0,64]
	FieldLength = 128
	FieldWidth  = 64
	// HalfLine 左右半场分界（X ≤ 64 属于左半场）
	HalfLine = 64
	// GoalY 球门中心所在的 Y
	GoalY = 32

	// Rounds 整场比赛的回合数；HalfTime 起进攻方向互换
	Rounds   = 5400
	HalfTime = 2700

	// Players 场上球员数（不含守门员），Agents = 两个场地协调者 + 十名球员
	Players = 10
	Agents  = Players + 2

	// 球员编号 2..6 为主队，7..11 为客队
	FirstPlayer = 2
	FirstAway   = 7
	LastPlayer  = 11
)

// Point 球场上的整数坐标
type Point struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Center 开球点
var Center = Point{X: HalfLine, Y: GoalY}

// NoPoint 表示“无坐标”（未射门、哨兵消息等）
var NoPoint = Point{X: -1, Y: -1}

// Manhattan 曼哈顿距离
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// InBounds 是否在场内
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X <= FieldLength && p.Y >= 0 && p.Y <= FieldWidth
}

// OnGoalLine 是否恰好落在任意一侧球门中心
func (p Point) OnGoalLine() bool {
	return p.Y == GoalY && (p.X == 0 || p.X == FieldLength)
}

// Half 半场，同时也是对应场地协调者的编号（0 为主协调者）
type Half int

const (
	HalfLeft Half = iota
	HalfRight
)

func (h Half) String() string {
	if h == HalfLeft {
		return "left"
	}
	return "right"
}

// Peer 对端协调者
func (h Half) Peer() Half {
	return 1 - h
}

// OwningHalf 根据球的 X 坐标决定本回合哪个协调者拥有球的权威
func OwningHalf(x int) Half {
	if x <= HalfLine {
		return HalfLeft
	}
	return HalfRight
}

// Team 队伍编号（0 主队，1 客队），同时是比分数组下标
type Team int

const (
	NoTeam   Team = -1
	TeamHome Team = 0
	TeamAway Team = 1
)

// TeamOf 按球员编号划分队伍
func TeamOf(id int) Team {
	if id < FirstAway {
		return TeamHome
	}
	return TeamAway
}

// Teammates 返回同队球员编号区间 [from, to]
func Teammates(t Team) (from, to int) {
	if t == TeamHome {
		return FirstPlayer, FirstAway - 1
	}
	return FirstAway, LastPlayer
}

// AttackAnchor 球员当前进攻的球门中心：上半场主队攻右，客队攻左，下半场互换
func AttackAnchor(id, round int) Point {
	attackRight := TeamOf(id) == TeamHome
	if round >= HalfTime {
		attackRight = !attackRight
	}
	if attackRight {
		return Point{X: FieldLength, Y: GoalY}
	}
	return Point{X: 0, Y: GoalY}
}

// DefenseAnchor 球员当前防守的球门中心
func DefenseAnchor(id, round int) Point {
	a := AttackAnchor(id, round)
	return Point{X: FieldLength - a.X, Y: GoalY}
}

// slot 球员编号到数组下标
func slot(id int) int {
	return id - FirstPlayer
}

// playerID 数组下标到球员编号
func playerID(s int) int {
	return s + FirstPlayer
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
