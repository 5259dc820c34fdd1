package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"etf-autotrader/config"
	"etf-autotrader/gateway"
	"etf-autotrader/infrastructure/alert"
	"etf-autotrader/infrastructure/logger"
	"etf-autotrader/infrastructure/monitor"
	"etf-autotrader/internal/engine"
	"etf-autotrader/logs"
	"etf-autotrader/metrics"
)

// 连接交易所，按盘口更新做市，直到收到 SIGINT/SIGTERM。
func main() {
	cfgPath := flag.String("config", "configs/autotrader.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Close()
	lg := logs.FromZap(zl.WithFields(map[string]interface{}{
		"team":       cfg.Exchange.TeamName,
		"env":        cfg.Env,
		"instrument": cfg.Engine.QuoteInstrument,
	}).Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// 连接的生命周期长于引擎：退出时引擎还要通过它撤单
	connCtx, closeConn := context.WithCancel(context.Background())
	defer closeConn()

	var mon *monitor.Monitor
	if cfg.Metrics.Enabled {
		mon = monitor.New(cfg.Metrics.Monitor)
		srv := metrics.NewServer(cfg.Metrics.Addr, mon.Handler())
		go func() {
			if err := srv.Run(ctx); err != nil {
				lg.Error("metrics server stopped", "error", err)
			}
		}()
		lg.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}
	alerts := alert.NewManager([]alert.Channel{alert.NewLogChannel("log", lg)}, time.Minute)

	client := gateway.NewWSClient(cfg.Exchange.URL, cfg.Exchange.TeamName, cfg.Exchange.Secret, cfg.Exchange.DialTimeout)
	client.Logger = lg
	client.OnConnect = mon.RecordWSConnection
	client.OnDisconnect = mon.RecordWSDisconnect

	trader, err := engine.New(cfg.Engine, engine.Deps{
		Gateway: client,
		Logger:  lg,
		Monitor: mon,
		Alerts:  alerts,
	})
	if err != nil {
		lg.Error("invalid engine config", "error", err)
		return
	}

	if err := client.Dial(ctx); err != nil {
		lg.Error("connect failed", "error", err)
		return
	}
	defer client.Close()

	events := make(chan gateway.Event, 256)
	go func() {
		defer close(events)
		if err := client.Run(connCtx, events); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("exchange connection lost", "error", err)
		}
	}()

	updates := make(chan config.AppConfig, 1)
	if cfg.HotReload.Enabled {
		w := config.Watcher{
			Path:     *cfgPath,
			Cooldown: cfg.HotReload.Cooldown,
			Logger:   lg,
			OnResult: func(ok bool) {
				if !ok {
					mon.RecordConfigReload(false)
				}
			},
		}
		go func() {
			if err := w.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
				lg.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	notifySystemd(ctx, lg)

	err = trader.Run(ctx, events, updates)
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	st := trader.Stats()
	lg.Info("autotrader exit",
		"reason", err,
		"cycles", st.Cycles,
		"inserts", st.Inserts,
		"fills", st.Fills,
		"etf", st.ETF,
		"future", st.Future)
}

// notifySystemd 报告就绪并按 WatchdogSec 的一半发送心跳；不在 systemd 下运行时为空操作。
func notifySystemd(ctx context.Context, lg logs.Logger) {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify failed", "error", err)
	} else if ok {
		lg.Info("systemd notified ready")
	}
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
