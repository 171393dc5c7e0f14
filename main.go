package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KNICEX/option-sentinel/internal/repo"
	"github.com/KNICEX/option-sentinel/internal/schedule"
	"github.com/KNICEX/option-sentinel/internal/service/advisor"
	"github.com/KNICEX/option-sentinel/internal/service/llm/gemini"
	"github.com/KNICEX/option-sentinel/internal/service/market"
	marketbinance "github.com/KNICEX/option-sentinel/internal/service/market/binance"
	"github.com/KNICEX/option-sentinel/internal/service/monitor"
	"github.com/KNICEX/option-sentinel/internal/service/notification"
	"github.com/KNICEX/option-sentinel/internal/service/strategy"
	"github.com/KNICEX/option-sentinel/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	signalRepo := repo.NewSignalRepo(db)

	monitorCfg := ioc.InitMonitorConfig()
	strategyCfg := ioc.InitStrategyConfig()
	loc := ioc.InitLocation(monitorCfg)

	bian := ioc.InitBinanceCli()
	spotSrc := marketbinance.NewSpotSource(bian, viper.GetString("cex.binance.quote_currency"))
	marketSvc := market.NewSyntheticService(spotSrc, strategyCfg.MaxTenorDays, loc,
		market.WithFallbackSpots(ioc.InitFallbackSpots()))

	evaluator := strategy.NewEvaluator(marketSvc, strategyCfg, loc)
	rollMonitor := monitor.NewRollMonitor(signalRepo, loc)

	var taskOpts []monitor.TaskOption
	if url := viper.GetString("notify.webhook_url"); url != "" {
		taskOpts = append(taskOpts, monitor.WithNotifier(notification.NewWebhook(url)))
	}
	if viper.GetBool("advisor.enabled") {
		geminiCli := ioc.InitGeminiCli()
		taskOpts = append(taskOpts, monitor.WithAdvisor(advisor.NewSignalAdvisor(gemini.NewService(geminiCli))))
	}

	task := monitor.NewSignalScanTask(evaluator, signalRepo, rollMonitor,
		strategyCfg, monitorCfg.Assets, monitorCfg.RollThresholdDays, monitorCfg.ProfitThreshold, taskOpts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	schedule.Forever(ctx, task, monitorCfg.Interval)
}
