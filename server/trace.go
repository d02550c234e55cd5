package server

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"soccermatch/match"
)

// TraceSink 每回合输出一段可读的轨迹：
// 回合号 / 双方比分 / 回合开始时的球坐标，然后每名球员一行：
// 队内序号 上回合x y 本回合x y 到球 赢球 抢球分 射门x y
// 多场比赛共用同一个文件时，每段前加一行 "match <id>"
type TraceSink struct {
	log   *zap.Logger
	match string
}

// NewTraceSink 写入指定的 logger；nil 时丢弃
func NewTraceSink(log *zap.Logger) *TraceSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &TraceSink{log: log}
}

// ForMatch 返回为指定比赛加前缀的副本，底层 logger 共用
func (t *TraceSink) ForMatch(id string) match.RoundSink {
	return &TraceSink{log: t.log, match: id}
}

func (t *TraceSink) Record(rec match.RoundRecord) {
	if t.match == "" {
		t.log.Info(FormatTrace(rec))
		return
	}
	t.log.Info("match " + t.match + "\n" + FormatTrace(rec))
}

// FormatTrace 把回合记录格式化成多行文本（不含末尾换行）
func FormatTrace(rec match.RoundRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%d %d\n%d %d", rec.Round, rec.Score[0], rec.Score[1], rec.BallStart.X, rec.BallStart.Y)
	for _, p := range rec.Players {
		idx := p.ID - match.FirstPlayer
		if match.TeamOf(p.ID) == match.TeamAway {
			idx = p.ID - match.FirstAway
		}
		fmt.Fprintf(&b, "\n%d %d %d %d %d %d %d %d %d %d",
			idx, p.Prev.X, p.Prev.Y, p.Pos.X, p.Pos.Y,
			boolInt(p.Reached), boolInt(p.Won), p.Challenge, p.Shot.X, p.Shot.Y)
	}
	return b.String()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
