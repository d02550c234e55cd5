package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soccermatch/match"
	"soccermatch/server"
)

// 入口：启动 HTTP + WebSocket 服务，并初始化比赛管理器；-headless 时只跑一场比赛并输出轨迹
func main() {
	var (
		envFile    string
		addr       string
		headless   bool
		seed       int64
		intervalMs int
	)
	flag.StringVar(&envFile, "env", ".env", "dotenv file with SOCCER_* settings")
	flag.StringVar(&addr, "addr", "", "server listen address, e.g. :8080 (overrides SOCCER_ADDR)")
	flag.BoolVar(&headless, "headless", false, "play a single match to completion and exit")
	flag.Int64Var(&seed, "seed", 0, "match seed, 0 = time based (overrides SOCCER_SEED)")
	flag.IntVar(&intervalMs, "interval", -1, "minimum milliseconds per round (overrides SOCCER_ROUND_INTERVAL_MS)")
	flag.Parse()

	cfg, err := server.LoadConfig(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = addr
		case "seed":
			cfg.Seed = seed
		case "interval":
			cfg.RoundInterval = time.Duration(intervalMs) * time.Millisecond
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	traceLog := server.NewTraceLogger(cfg.TraceFile)
	defer func() { _ = traceLog.Sync() }()
	trace := server.NewTraceSink(traceLog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if headless {
		runHeadless(ctx, cfg, trace)
		return
	}

	mm := server.GetMatchManager()
	mm.Configure(ctx, trace, server.SessionOptions{Seed: cfg.Seed, RoundInterval: cfg.RoundInterval})
	if cfg.AutoStart {
		// 先开一场，便于快速试跑
		if _, err := mm.StartMatch(mm.Defaults()); err != nil {
			server.Log.Fatalf("autostart: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	// 管理与监控接口
	mux.HandleFunc("/matches", server.HandleMatches)
	mux.HandleFunc("/metrics", server.HandleMetrics)
	mux.HandleFunc("/schema", server.HandleSchema)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		server.Log.Infof("soccer match server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		server.Log.Warnf("shutdown: %v", err)
	}
	mm.StopAll(shutdownCtx)
}

// runHeadless 不起服务，直接跑完一场，轨迹写入 trace 文件，结果打印到标准输出
func runHeadless(ctx context.Context, cfg server.Config, trace match.RoundSink) {
	metrics := &server.MatchMetrics{}
	m, err := match.New(match.Config{
		Seed:   cfg.Seed,
		Sink:   match.MultiSink{trace, match.SinkFunc(metrics.Observe)},
		Logger: server.Log,
	})
	if err != nil {
		server.Log.Fatalf("new match: %v", err)
	}
	res, err := m.Run(ctx)
	if err != nil {
		server.Log.Errorf("match aborted: %v", err)
		fmt.Fprintf(os.Stderr, "match aborted after %d rounds: %v\n", res.Rounds, err)
		os.Exit(1)
	}
	snap := metrics.Snapshot()
	fmt.Printf("seed=%d rounds=%d score=%d-%d goals=%d challenges=%v passes=%v\n",
		m.Seed, res.Rounds, res.Score[0], res.Score[1], res.Goals, snap["challenges"], snap["passes"])
}
