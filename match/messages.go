package match

// ShotIntent 拿到球的球员想射门还是传球
type ShotIntent int

const (
	IntentNone  ShotIntent = -1
	IntentScore ShotIntent = 0
	IntentPass  ShotIntent = 1
)

func (s ShotIntent) String() string {
	switch s {
	case IntentScore:
		return "score"
	case IntentPass:
		return "pass"
	default:
		return "none"
	}
}

// NoChallenge 没有到达球时的抢球分
const NoChallenge = -1

// BallUpdate 持球协调者每回合广播给球员的球坐标
type BallUpdate struct {
	Round int
	Ball  Point
}

// PlayerReport 球员每回合发给协调者的报告，固定格式
type PlayerReport struct {
	Pos        Point
	ID         int
	Challenge  int // 抢球分，未到达球为 -1
	Intent     ShotIntent
	ShootSkill int
	Round      int
}

// IsSentinel 哨兵报告只用来凑齐十条消息，不携带位置
func (r PlayerReport) IsSentinel() bool {
	return r.Pos.X == -1
}

// Reached 该球员本回合是否到达了球
func (r PlayerReport) Reached() bool {
	return !r.IsSentinel() && r.Challenge != NoChallenge
}

// sentinel 发往非持球协调者的哨兵副本
func (r PlayerReport) sentinel() PlayerReport {
	r.Pos.X = -1
	return r
}

// ChallengeOutcome 持球协调者每回合发给对端的同步消息
type ChallengeOutcome struct {
	Winner     int   `json:"winner" msgpack:"winner"`          // 赢得争抢的球员，-1 表示无人
	Shooter    int   `json:"shooter" msgpack:"shooter"`        // 射门者；传球时为接球队友
	ShotTarget Point `json:"shot_target" msgpack:"shot_target"` // 射门/传球目标
	Ball       Point `json:"ball" msgpack:"ball"`               // 本回合结束时球的位置
	Points     int   `json:"points" msgpack:"points"`
	Team       Team  `json:"team" msgpack:"team"` // 得分队伍，无人得球为 -1
	Round      int   `json:"round" msgpack:"round"`
}

// noWinner 无人到达球：比分不变，球留在原地
func noWinner(round int, ball Point) ChallengeOutcome {
	return ChallengeOutcome{
		Winner:     -1,
		Shooter:    -1,
		ShotTarget: NoPoint,
		Ball:       ball,
		Team:       NoTeam,
		Round:      round,
	}
}

// PlayerTrace 球员每回合结束时交给主协调者的状态快照
type PlayerTrace struct {
	ID        int   `json:"id" msgpack:"id"`
	Prev      Point `json:"prev" msgpack:"prev"`
	Pos       Point `json:"pos" msgpack:"pos"`
	Reached   bool  `json:"reached" msgpack:"reached"`
	Won       bool  `json:"won" msgpack:"won"`
	Challenge int   `json:"challenge" msgpack:"challenge"`
	Shot      Point `json:"shot" msgpack:"shot"`
	Round     int   `json:"round" msgpack:"round"`
}
