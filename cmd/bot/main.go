package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SignalBot/internal/collector"
	"SignalBot/internal/config"
	"SignalBot/internal/detector"
	"SignalBot/internal/market"
	"SignalBot/internal/notifier"
	"SignalBot/internal/scheduler"
	"SignalBot/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "add":
		if len(os.Args) < 3 {
			fmt.Println("用法: bot add <code> [name]")
			os.Exit(1)
		}
		name := ""
		if len(os.Args) > 3 {
			name = os.Args[3]
		}
		addStock(cfg, os.Args[2], name)
	case "remove":
		if len(os.Args) < 3 {
			fmt.Println("用法: bot remove <code>")
			os.Exit(1)
		}
		removeStock(cfg, os.Args[2])
	case "list":
		listStocks(cfg)
	case "update-names":
		updateNames(cfg)
	case "test":
		testNotification(cfg)
	case "run":
		runMonitor(cfg, false)
	case "start":
		runMonitor(cfg, true)
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`SignalBot - 股票监控系统

用法:
  bot add <code> [name]   添加股票代码 (名称缺省时自动获取)
  bot remove <code>       移除股票代码
  bot list                列出所有股票
  bot update-names        更新所有股票名称
  bot test                测试企业微信通知
  bot run                 立即执行一次监控
  bot start               启动定时监控`)
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	return st
}

func addStock(cfg *config.Config, code, name string) {
	st := openStore(cfg)
	defer st.Close()

	marketLabel := market.MarketLabel(code)
	if name == "" {
		fmt.Printf("📡 正在自动获取股票 %s 的名称...\n", code)
		col := collector.NewCollector(collector.NewHTTPFetcher(cfg.Proxy))
		fetched, err := col.StockName(code)
		if err != nil {
			fmt.Printf("⚠️  无法获取股票 %s 的名称: %v\n", code, err)
		} else {
			name = fetched
		}
	}

	if err := st.AddStock(code, name, marketLabel); err != nil {
		fmt.Printf("❌ 添加股票失败: %s: %v\n", code, err)
		os.Exit(1)
	}
	display := name
	if display == "" {
		display = "(未获取到名称)"
	}
	fmt.Printf("✅ 成功添加股票: %s %s [%s]\n", code, display, marketLabel)
}

func removeStock(cfg *config.Config, code string) {
	st := openStore(cfg)
	defer st.Close()

	if err := st.RemoveStock(code); err != nil {
		fmt.Printf("❌ 移除股票失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 成功移除股票: %s\n", code)
}

func listStocks(cfg *config.Config) {
	st := openStore(cfg)
	defer st.Close()

	stocks, err := st.ListStocks()
	if err != nil {
		log.Fatalf("[FATAL] list stocks: %v", err)
	}
	if len(stocks) == 0 {
		fmt.Println("📋 暂无股票代码")
		return
	}
	fmt.Printf("📋 股票列表 (共 %d 只):\n", len(stocks))
	fmt.Println("------------------------------------------------------------")
	for _, s := range stocks {
		status := "✅"
		if !s.IsActive {
			status = "❌"
		}
		name := s.Name
		if name == "" {
			name = "未知"
		}
		fmt.Printf("%s %s | %s | %s | %s\n",
			status, s.Code, name, s.Market, s.AddedTime.Format("2006-01-02 15:04"))
	}
}

func updateNames(cfg *config.Config) {
	st := openStore(cfg)
	defer st.Close()

	stocks, err := st.ListStocks()
	if err != nil {
		log.Fatalf("[FATAL] list stocks: %v", err)
	}
	col := collector.NewCollector(collector.NewHTTPFetcher(cfg.Proxy))

	updated := 0
	for _, s := range stocks {
		if !s.IsActive || s.Name != "" {
			continue
		}
		fmt.Printf("📡 正在获取 %s 的名称...\n", s.Code)
		name, err := col.StockName(s.Code)
		if err != nil || name == "" {
			fmt.Printf("⚠️  无法获取 %s 的名称\n", s.Code)
			continue
		}
		if err := st.UpdateStockName(s.Code, name); err != nil {
			fmt.Printf("❌ 更新失败: %s: %v\n", s.Code, err)
			continue
		}
		fmt.Printf("✅ 更新成功: %s -> %s\n", s.Code, name)
		updated++
	}
	fmt.Printf("🎉 更新完成，共更新了 %d 只股票的名称\n", updated)
}

func testNotification(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	wn := notifier.NewWeChatNotifier(cfg.WeChat.WebhookURL, cfg.Proxy)
	if err := wn.SendTestMessage(); err != nil {
		fmt.Printf("❌ 测试通知发送失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ 测试通知发送成功")
}

func runMonitor(cfg *config.Config, daemon bool) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	st := openStore(cfg)
	defer st.Close()

	cal, err := market.NewCalendar()
	if err != nil {
		log.Fatalf("[FATAL] init market calendar: %v", err)
	}
	cal.AddHolidays(market.ExchangeAShare, cfg.Market.AShareHolidays...)
	cal.AddHolidays(market.ExchangeHK, cfg.Market.HKHolidays...)

	col := collector.NewCollector(collector.NewHTTPFetcher(cfg.Proxy))
	det := detector.New(cfg.Signal.PriceThreshold, cfg.Signal.VolumeThreshold)
	wn := notifier.NewWeChatNotifier(cfg.WeChat.WebhookURL, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, st, col, cal, det, wn)
	sched.CheckMarketHours = cfg.Market.CheckMarketHours
	sched.AlwaysSendReport = cfg.Report.AlwaysSendReport
	sched.SendSignalAlerts = cfg.Report.SendSignalAlerts

	if !daemon {
		fmt.Println("🚀 立即执行股票监控...")
		sched.RunOnce()
		return
	}

	if err := sched.Register(cfg.Schedule.MonitorCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Printf("[INFO] 📅 股票监控已启动, cron: %s", cfg.Schedule.MonitorCron)
	fmt.Println("按 Ctrl+C 停止监控")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SignalBot stopped")
}
