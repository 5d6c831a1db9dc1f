package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"checkinbot/internal/accounts"
	"checkinbot/internal/config"
	"checkinbot/internal/lib/logger/slogpretty"
	"checkinbot/internal/notify"
	"checkinbot/internal/portal"
	"checkinbot/internal/report"
	"checkinbot/internal/repository"
	"checkinbot/internal/repository/kafka"
	"checkinbot/internal/service"

	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	exitOK          = 0
	exitHardFailure = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run())
}

func run() int {

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return exitConfigError
	}

	logger := setupLogger(cfg.Env, cfg.Debug)

	logger.Info("starting check-in run",
		"env", cfg.Env,
		"timeout", cfg.GetTimeout().String(),
	)

	accountList, err := accounts.ParseList(cfg.Accounts)
	if err != nil {
		logger.Error("invalid account configuration", "error", err.Error())
		return exitConfigError
	}

	portalClient, err := portal.NewClient(cfg.URL, cfg.GetTimeout())
	if err != nil {
		logger.Error("invalid portal configuration", "error", err.Error())
		return exitConfigError
	}

	var outcomeRepo repository.OutcomeRepository = repository.NoopOutcomeRepository{}
	if brokers := cfg.BrokerList(); len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, cfg.Kafka.Topic)
		defer producer.Close()
		outcomeRepo = repository.NewKafkaOutcomeRepository(producer)

		logger.Info("outcome event stream enabled",
			"brokers", brokers,
			"topic", cfg.Kafka.Topic,
		)
	}

	runner := service.NewRunner(portalClient, outcomeRepo, logger)
	notifier := notify.NewTelegram(cfg.TG.BotToken, cfg.TG.ChatID, cfg.GetTimeout(), logger)

	ctx := context.Background()
	outcomes := runner.Run(ctx, accountList)

	failures := report.HardFailures(outcomes)
	if len(failures) > 0 {
		notifier.Send(ctx, report.Render(cfg.Notify.Title, outcomes, failures, cfg.RunLink()))
		logger.Error("run finished with hard failures",
			"failed", len(failures),
			"total", len(outcomes),
		)
		return exitHardFailure
	}

	if cfg.Notify.OnSuccess {
		notifier.Send(ctx, report.Render(cfg.Notify.Title, outcomes, outcomes, cfg.RunLink()))
	}

	logger.Info("run finished", "succeeded", len(outcomes))
	return exitOK
}

func setupLogger(env string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	switch env {
	case envDev:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		)
	case envLocal:
		fallthrough
	default:
		return setupPrettySlog()
	}
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
