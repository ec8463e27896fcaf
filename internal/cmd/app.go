package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matthieukhl/nexsales/internal/assistant"
	"github.com/matthieukhl/nexsales/internal/config"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/llm"
	"github.com/matthieukhl/nexsales/internal/logger"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/matthieukhl/nexsales/internal/types"
)

// app is the wiring shared by every subcommand
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	store       *store.Store
	executor    *executor.Executor
	generator   types.Generator
	interpreter *assistant.Interpreter
}

// newApp loads the config, applies overrides and wires the components
func newApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	company, err := cfg.Company.Company()
	if err != nil {
		return nil, err
	}

	st := store.New()
	if cfg.Store.SeedDemo {
		st = store.NewSeeded(time.Now())
	}

	gen, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	ex := executor.New(st, company, executor.WithLogger(log.Named("executor")))
	in := assistant.NewInterpreter(gen, st, ex,
		assistant.WithTimeout(cfg.LLM.Generator.Timeout),
		assistant.WithLogger(log.Named("assistant")),
	)

	return &app{
		cfg:         cfg,
		log:         log,
		store:       st,
		executor:    ex,
		generator:   gen,
		interpreter: in,
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
