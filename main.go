package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	catalogx "github.com/brewhaven/voice-agents/agent/catalog"
	llmx "github.com/brewhaven/voice-agents/agent/llm"
	promptx "github.com/brewhaven/voice-agents/agent/prompt"
	sessionx "github.com/brewhaven/voice-agents/agent/session"
	storex "github.com/brewhaven/voice-agents/agent/store"
	configx "github.com/brewhaven/voice-agents/pkg/config"
	_ "github.com/brewhaven/voice-agents/pkg/logger/autoload"
	speechx "github.com/brewhaven/voice-agents/pkg/speech"
	workerx "github.com/brewhaven/voice-agents/pkg/worker"
)

type AppConfig struct {
	StoreBackend string `envconfig:"STORE_BACKEND" split_words:"true" default:"file"`
	OrderDir     string `envconfig:"ORDER_DIR" split_words:"true" default:"order_data"`
	CheckinLog   string `envconfig:"CHECKIN_LOG" split_words:"true" default:"wellness_log.json"`
	ConceptsPath string `envconfig:"CONCEPTS_PATH" split_words:"true" default:"concepts.json"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	if err := promptx.LoadPromptSet().Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid prompt templates")
	}

	speechCfg := configx.MustNew[speechx.Config]("SPEECH")
	workerOpts := configx.MustNew[workerx.Options]("WORKER")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	speechClient, err := speechx.New(*speechCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid speech config")
	}

	orders, checkins := buildSinks(ctx, *appCfg)
	concepts := catalogx.Load(appCfg.ConceptsPath)

	deps := sessionx.Deps{
		LLM:      *llmCfg,
		STT:      speechClient,
		TTS:      speechClient,
		Orders:   orders,
		Checkins: checkins,
		Catalog:  concepts,
	}

	workerOpts.Prewarm = func(p *workerx.Process) error {
		log.Info().Int("concepts", concepts.Len()).
			Str("store_backend", appCfg.StoreBackend).Msg("worker prewarmed")
		return nil
	}
	workerOpts.Entrypoint = func(ctx context.Context, jc *workerx.JobContext) error {
		return sessionx.Run(ctx, jc, deps)
	}

	w, err := workerx.New(*workerOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("create worker")
	}

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
	log.Info().Msg("worker shutdown complete")
}

func buildSinks(ctx context.Context, cfg AppConfig) (storex.Sink[storex.OrderRecord], storex.Sink[storex.CheckinRecord]) {
	if cfg.StoreBackend == "postgres" {
		pgCfg := configx.MustNew[storex.PostgresConfig]("POSTGRES")
		db := storex.NewPostgresDB(*pgCfg)
		if err := storex.EnsureRecordTable(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("prepare postgres store")
		}
		return storex.NewPostgresSink[storex.OrderRecord](db, "order"),
			storex.NewPostgresSink[storex.CheckinRecord](db, "checkin")
	}

	return storex.NewOrderDir(cfg.OrderDir), storex.NewCheckinLog(cfg.CheckinLog)
}
