package match

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config 开赛参数。阵容为空时使用 DefaultRoster，Seed 为 0 时取当前时间
type Config struct {
	Roster Roster
	Seed   int64
	Sink   RoundSink
	Logger *zap.SugaredLogger
}

// Result 整场比赛的结果
type Result struct {
	Rounds int    `json:"rounds" msgpack:"rounds"`
	Score  [2]int `json:"score" msgpack:"score"`
	Goals  int    `json:"goals" msgpack:"goals"`
}

// Match 一场比赛：两个协调者和十名球员，各自运行在独立的 goroutine 中，只通过 Network 通信
type Match struct {
	Seed int64

	net     *Network
	coords  [2]*Coordinator
	players []*Player
	log     *zap.SugaredLogger
	rounds  int
}

// New 校验阵容并创建全部参与者；阵容不合法时不会启动任何参与者
func New(cfg Config) (*Match, error) {
	roster := cfg.Roster
	if roster == nil {
		roster = DefaultRoster
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	// 每个参与者拥有独立的随机源：seed + 参与者编号
	newRand := func(agent int) *rand.Rand {
		return rand.New(rand.NewSource(seed + int64(agent)))
	}

	net := NewNetwork()
	m := &Match{
		Seed:   seed,
		net:    net,
		log:    log,
		rounds: Rounds,
	}
	for h := HalfLeft; h <= HalfRight; h++ {
		var sink RoundSink
		if h == HalfLeft {
			sink = cfg.Sink
		}
		m.coords[h] = NewCoordinator(h, net, newRand(int(h)), sink, log)
	}
	for _, e := range roster {
		m.players = append(m.players, NewPlayer(e, net, newRand(e.ID)))
	}
	return m, nil
}

// Primary 主协调者
func (m *Match) Primary() *Coordinator { return m.coords[HalfLeft] }

// Run 并发运行十二个参与者直到整场结束；任一参与者出错或 ctx 取消时全部退出
func (m *Match) Run(ctx context.Context) (Result, error) {
	m.log.Infow("match started", "seed", m.Seed, "rounds", m.rounds)
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range m.coords {
		c := c
		g.Go(func() error { return c.Run(gctx, m.rounds) })
	}
	for _, p := range m.players {
		p := p
		g.Go(func() error { return p.Run(gctx, m.rounds) })
	}
	err := g.Wait()

	primary := m.Primary()
	res := Result{Rounds: primary.Played(), Score: primary.Score(), Goals: primary.goals}
	if err != nil {
		m.log.Warnw("match aborted", "seed", m.Seed, "err", err, "score", res.Score)
		return res, err
	}
	m.log.Infow("match finished", "seed", m.Seed, "score", res.Score, "goals", res.Goals)
	return res, nil
}
