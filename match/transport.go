package match

import "context"

// mailboxDepth 每条点对点通道的缓冲深度，允许发送方领先接收方几个回合而不阻塞
const mailboxDepth = 4

// Network 进程内的消息传输：每个 (发送方, 接收方, 消息类型) 一条有缓冲的通道，
// 同一对参与者之间可靠且保序；所有阻塞操作都响应 ctx 取消
type Network struct {
	ball    [2][Players]chan BallUpdate   // 协调者 → 球员
	reports [2][Players]chan PlayerReport // 球员 → 协调者
	traces  [Players]chan PlayerTrace     // 球员 → 主协调者
	sync    [2]chan ChallengeOutcome      // 按接收方协调者编号
}

// NewNetwork 建立十二个参与者之间的全部通道
func NewNetwork() *Network {
	n := &Network{}
	for h := 0; h < 2; h++ {
		for s := 0; s < Players; s++ {
			n.ball[h][s] = make(chan BallUpdate, mailboxDepth)
			n.reports[h][s] = make(chan PlayerReport, mailboxDepth)
		}
		n.sync[h] = make(chan ChallengeOutcome, mailboxDepth)
	}
	for s := 0; s < Players; s++ {
		n.traces[s] = make(chan PlayerTrace, mailboxDepth)
	}
	return n
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv[T any](ctx context.Context, ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// PublishBall 持球协调者把球坐标推给十名球员
func (n *Network) PublishBall(ctx context.Context, from Half, u BallUpdate) error {
	for s := 0; s < Players; s++ {
		if err := send(ctx, n.ball[from][s], u); err != nil {
			return err
		}
	}
	return nil
}

// AwaitBall 球员同时等待两个协调者，先到先用；返回球坐标和发送方
func (n *Network) AwaitBall(ctx context.Context, id int) (BallUpdate, Half, error) {
	s := slot(id)
	select {
	case u := <-n.ball[HalfLeft][s]:
		return u, HalfLeft, nil
	case u := <-n.ball[HalfRight][s]:
		return u, HalfRight, nil
	case <-ctx.Done():
		return BallUpdate{}, 0, ctx.Err()
	}
}

// SendReport 球员向某个协调者发送本回合报告
func (n *Network) SendReport(ctx context.Context, to Half, r PlayerReport) error {
	return send(ctx, n.reports[to][slot(r.ID)], r)
}

// CollectReports 等齐十名球员的报告，按球员下标排列
func (n *Network) CollectReports(ctx context.Context, at Half) ([Players]PlayerReport, error) {
	var out [Players]PlayerReport
	for s := 0; s < Players; s++ {
		r, err := recv(ctx, n.reports[at][s])
		if err != nil {
			return out, err
		}
		out[s] = r
	}
	return out, nil
}

// SendTrace 球员把本回合状态交给主协调者（发出即忘）
func (n *Network) SendTrace(ctx context.Context, t PlayerTrace) error {
	return send(ctx, n.traces[slot(t.ID)], t)
}

// CollectTraces 主协调者等齐十名球员的状态
func (n *Network) CollectTraces(ctx context.Context) ([Players]PlayerTrace, error) {
	var out [Players]PlayerTrace
	for s := 0; s < Players; s++ {
		t, err := recv(ctx, n.traces[s])
		if err != nil {
			return out, err
		}
		out[s] = t
	}
	return out, nil
}

// SendOutcome 持球协调者把争抢结果同步给对端
func (n *Network) SendOutcome(ctx context.Context, to Half, o ChallengeOutcome) error {
	return send(ctx, n.sync[to], o)
}

// AwaitOutcome 非持球协调者等待对端的同步消息
func (n *Network) AwaitOutcome(ctx context.Context, at Half) (ChallengeOutcome, error) {
	return recv(ctx, n.sync[at])
}
