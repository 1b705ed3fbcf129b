package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tarokfree/tarok-server-go/internal/config"
	"github.com/tarokfree/tarok-server-go/internal/game"
	"github.com/tarokfree/tarok-server-go/internal/match"
)

var (
	configPath = flag.String("config", config.DefaultPath, "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting tarok simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("matches", cfg.Simulation.Matches),
		zap.Int("hands", cfg.Simulation.Hands),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("simulation stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("simulation complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	opts := []game.EngineOption{
		game.WithReplayLimit(cfg.Engine.ReplayLimit),
		game.WithRegisterer(reg),
	}
	seed := cfg.Engine.Seed + cfg.Simulation.SeedOffset
	if cfg.Engine.Seed != 0 {
		opts = append(opts, game.WithSeed(seed))
	}
	engine := game.NewEngine(logger, opts...)

	manager, err := match.NewManager(engine, logger, cfg.Match.ArchiveSize)
	if err != nil {
		return err
	}

	for i := 0; i < cfg.Simulation.Matches; i++ {
		m, err := manager.CreateMatch(cfg.Simulation.Players, cfg.Simulation.Hands)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		summary, err := m.Play(ctx, randomChooser(rng))
		if err != nil {
			return fmt.Errorf("match %s: %w", m.ID, err)
		}
		manager.RemoveMatch(m.ID)

		for rank, s := range summary.Standings() {
			logger.Info("match standing",
				zap.String("match_id", summary.ID),
				zap.Int("rank", rank+1),
				zap.String("player", s.Name),
				zap.Int("points", s.Points),
			)
		}
	}

	return logMetrics(reg, logger)
}

// randomChooser picks uniformly among the legal actions.
func randomChooser(rng *rand.Rand) match.Chooser {
	return func(view *game.GameView) int {
		return view.LegalActions[rng.IntN(len(view.LegalActions))].ID
	}
}

func logMetrics(reg prometheus.Gatherer, logger *zap.Logger) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fields := []zap.Field{
				zap.String("metric", mf.GetName()),
				zap.Float64("value", metricValue(mf.GetType(), metric)),
			}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			logger.Info("engine metric", fields...)
		}
	}
	return nil
}

func metricValue(kind dto.MetricType, metric *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	default:
		return 0
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
