package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"etf-autotrader/config"
	"etf-autotrader/infrastructure/logger"
	"etf-autotrader/internal/engine"
	"etf-autotrader/logs"
	"etf-autotrader/sim"
)

// 本地仿真：内存撮合驱动引擎，不连接交易所。结果由 seed 决定，可复现。
func main() {
	cfgPath := flag.String("config", "", "配置文件路径（为空则使用默认引擎参数）")
	steps := flag.Int("steps", 2000, "仿真步数")
	seed := flag.Uint64("seed", 1, "随机种子")
	fillProb := flag.Float64("fillProb", 0.2, "挂在最优价的订单每步被动成交的概率")
	moveProb := flag.Float64("moveProb", 0.3, "中间价每步移动一个 tick 的概率")
	level := flag.String("logLevel", "info", "日志级别")
	flag.Parse()

	engineCfg := config.DefaultEngineConfig()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		engineCfg = cfg.Engine
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = *level
	logCfg.Outputs = []string{"stdout"}
	logCfg.Format = "console"
	zl, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Close()
	lg := logs.FromZap(zl.Logger)

	exCfg := sim.DefaultExchangeConfig()
	exCfg.Seed = *seed
	exCfg.FillProbability = *fillProb
	exCfg.MoveProbability = *moveProb
	exCfg.TickSize = engineCfg.TickSize
	exCfg.MaxOpenOrders = engineCfg.MaxOpenOrders
	exCfg.MaxActiveVolume = engineCfg.MaxActiveVolume

	runner, trader, err := sim.BuildRunner(exCfg, engineCfg, engine.Deps{Logger: lg})
	if err != nil {
		lg.Error("build runner failed", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	res, err := runner.Run(ctx, *steps)
	if err != nil {
		lg.Warn("simulation interrupted", "error", err)
	}
	st := trader.Stats()
	lg.Info("simulation finished",
		"steps", res.Steps,
		"events", res.Events,
		"trades", res.Trades,
		"position", res.Position,
		"pnl", res.PnL,
		"inserts", st.Inserts,
		"cancels", st.Cancels,
		"liquidations", st.Liquidations,
		"rate_limited", st.RateLimited,
		"adverse_rate", res.PostTrade.AdverseSelectionRate,
		"markout_1s", res.PostTrade.AvgMarkoutShort,
		"markout_5s", res.PostTrade.AvgMarkoutLong)
}
