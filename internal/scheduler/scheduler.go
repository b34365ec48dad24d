package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"SignalBot/internal/collector"
	"SignalBot/internal/detector"
	"SignalBot/internal/market"
	"SignalBot/internal/model"
	"SignalBot/internal/notifier"
	"SignalBot/internal/store"
)

// Scheduler runs the monitoring cycle on a cron interval. Cycles are
// sequential and non-reentrant; one runs to completion before the next fires.
type Scheduler struct {
	Cron      *cron.Cron
	Store     store.Store
	Collector *collector.Collector
	Calendar  *market.Calendar
	Detector  *detector.Detector
	Notifier  *notifier.WeChatNotifier
	Ctx       context.Context

	CheckMarketHours bool
	AlwaysSendReport bool
	SendSignalAlerts bool
}

// NewScheduler wires the monitoring cycle's collaborators together.
func NewScheduler(ctx context.Context, st store.Store, col *collector.Collector, cal *market.Calendar, det *detector.Detector, wn *notifier.WeChatNotifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Store:     st,
		Collector: col,
		Calendar:  cal,
		Detector:  det,
		Notifier:  wn,
		Ctx:       ctx,
	}
}

// Register adds the monitoring cycle to the cron table.
func (s *Scheduler) Register(monitorCron string) error {
	if _, err := s.Cron.AddFunc(monitorCron, s.monitorTask); err != nil {
		return fmt.Errorf("register monitor task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunOnce executes a monitoring cycle immediately (CLI `run` command).
func (s *Scheduler) RunOnce() {
	s.monitorTask()
}

// monitorTask is one full cycle: gate → fetch → history → detect → persist →
// notify. A single ticker failing at any step never aborts the others.
func (s *Scheduler) monitorTask() {
	log.Println("[INFO] 🤖 SignalBot 开始监控任务")

	codes, err := s.Store.ActiveStocks()
	if err != nil {
		log.Printf("[ERROR] load watchlist: %v", err)
		return
	}
	if len(codes) == 0 {
		log.Println("[WARN] 没有需要监控的股票代码")
		return
	}

	now := time.Now()
	targets := codes
	if s.CheckMarketHours {
		if !s.Calendar.ShouldRunCycle(codes, now) {
			log.Printf("[INFO] 所有相关市场均休市，跳过本轮监控")
			log.Printf("[INFO] %s", s.Calendar.StatusMessage(market.ExchangeAShare, now))
			log.Printf("[INFO] %s", s.Calendar.StatusMessage(market.ExchangeHK, now))
			return
		}
		open := s.Calendar.FilterOpen(codes, now)
		targets = make([]string, 0, len(codes))
		targets = append(targets, open[market.ExchangeAShare]...)
		targets = append(targets, open[market.ExchangeHK]...)
		log.Printf("[INFO] 开市过滤: A股 %d 只, 港股 %d 只",
			len(open[market.ExchangeAShare]), len(open[market.ExchangeHK]))
	}
	if len(targets) == 0 {
		log.Println("[INFO] 当前没有处于交易时段的股票")
		return
	}

	log.Printf("[INFO] 🎯 开始监控 %d 只股票: %v", len(targets), targets)
	quotes := s.Collector.Collect(targets)
	if len(quotes) == 0 {
		log.Println("[WARN] 未获取到任何股票数据")
		return
	}

	histories := make(map[string][]model.Sample, len(quotes))
	for code := range quotes {
		samples, err := s.Store.Recent(code, 5)
		if err != nil {
			log.Printf("[ERROR] load history %s: %v", code, err)
			continue
		}
		histories[code] = samples
	}

	signals := s.Detector.DetectAll(quotes, histories)

	// Persist after detection so the current sample does not feed its own
	// volume average.
	for code, quote := range quotes {
		sample := model.Sample{
			Code:          code,
			Price:         quote.CurrentPrice,
			ChangePercent: quote.ChangePercent,
			Volume:        quote.Volume,
			Timestamp:     quote.FetchedAt,
		}
		if err := s.Store.AppendSample(sample); err != nil {
			log.Printf("[ERROR] append sample %s: %v", code, err)
		}
		if quote.Name != "" {
			if err := s.Store.UpdateStockName(code, quote.Name); err != nil {
				log.Printf("[ERROR] update name %s: %v", code, err)
			}
		}
	}

	if s.AlwaysSendReport {
		stocks, indices := notifier.SplitByKind(quotes)
		if len(stocks) > 0 {
			s.trySend(notifier.FormatStockReport("📈 股票监控", stocks))
		}
		if len(indices) > 0 {
			s.trySend(notifier.FormatStockReport("📊 指数监控", indices))
		}
		log.Printf("[INFO] 📊 发送常规监控报告: %d 只股票", len(quotes))
	}

	if s.SendSignalAlerts && s.Detector.ShouldNotify(signals) {
		s.trySend(detector.FormatAlert(signals, quotes))
		log.Printf("[INFO] 🚨 发送信号预警: %d 只股票有重要信号", len(signals))
	} else if !s.AlwaysSendReport {
		log.Printf("[INFO] 监控完成，未检测到重要信号，未发送通知 (%d 只股票)", len(quotes))
	}

	log.Println("[INFO] ✅ SignalBot 任务完成")
}

func (s *Scheduler) trySend(text string) {
	if text == "" {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
