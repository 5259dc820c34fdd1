package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"etf-autotrader/logs"
)

// Watcher 基于 fsnotify 监听配置文件，变更后重新加载并校验，
// 通过 channel 把新配置交给引擎事件循环，保证热更新仍在引擎 goroutine 内生效。
type Watcher struct {
	Path     string
	Cooldown time.Duration // 冷却时间，合并编辑器的连续写入
	Logger   logs.Logger
	// OnResult is called after every reload attempt (metrics hook).
	OnResult func(ok bool)
}

// Run watches until ctx is cancelled. The directory is watched rather than the
// file so that editors replacing the file by rename are picked up.
func (w Watcher) Run(ctx context.Context, out chan<- AppConfig) error {
	if w.Logger == nil {
		w.Logger = logs.Nop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.Path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	var (
		pending bool
		timer   = time.NewTimer(time.Hour)
	)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(w.Cooldown)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// 记录错误但继续监听
			w.Logger.Warn("config watcher error", "error", err)
		case <-timer.C:
			pending = false
			cfg, err := LoadWithEnvOverrides(w.Path)
			if w.OnResult != nil {
				w.OnResult(err == nil)
			}
			if err != nil {
				w.Logger.Warn("config reload rejected", "path", w.Path, "error", err)
				continue
			}
			w.Logger.Info("config reloaded", "path", w.Path)
			select {
			case out <- cfg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
