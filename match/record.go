package match

// RoundRecord 主协调者每回合汇总后交给日志协作者的记录
type RoundRecord struct {
	Round     int                  `json:"round" msgpack:"round" jsonschema:"minimum=0"`
	Score     [2]int               `json:"score" msgpack:"score" jsonschema:"description=home and away score after this round"`
	BallStart Point                `json:"ball_start" msgpack:"ball_start"`
	BallEnd   Point                `json:"ball_end" msgpack:"ball_end"`
	Owner     Half                 `json:"owner" msgpack:"owner" jsonschema:"description=0 when the left coordinator held the ball"`
	Players   [Players]PlayerTrace `json:"players" msgpack:"players"`
	Outcome   ChallengeOutcome     `json:"outcome" msgpack:"outcome"`
}

// Contenders 本回合到达球的人数
func (r RoundRecord) Contenders() int {
	n := 0
	for _, p := range r.Players {
		if p.Reached {
			n++
		}
	}
	return n
}

// Scored 本回合是否进球
func (r RoundRecord) Scored() bool {
	return r.Outcome.Points > 0
}

// RoundSink 日志协作者：每回合接收一条记录，不回传任何结果
type RoundSink interface {
	Record(rec RoundRecord)
}

// SinkFunc 函数适配为 RoundSink
type SinkFunc func(rec RoundRecord)

func (f SinkFunc) Record(rec RoundRecord) { f(rec) }

// MultiSink 依次转发给多个 sink
type MultiSink []RoundSink

func (m MultiSink) Record(rec RoundRecord) {
	for _, s := range m {
		if s != nil {
			s.Record(rec)
		}
	}
}

type nopSink struct{}

func (nopSink) Record(RoundRecord) {}
