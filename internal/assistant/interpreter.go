// Package assistant connects the language model to the business records:
// it builds prompts, interprets replies as commands and executes them.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matthieukhl/nexsales/internal/command"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/response"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/matthieukhl/nexsales/internal/types"
)

var (
	// ErrUpstreamUnavailable means the generator failed or timed out
	ErrUpstreamUnavailable = fmt.Errorf("assistant service unavailable: %w", response.ErrUpstream)
	// ErrMockData means the generated batch could not be decoded
	ErrMockData = errors.New("invalid mock data batch")
)

const defaultTimeout = 60 * time.Second

// Interpreter runs chat turns end to end
type Interpreter struct {
	generator types.Generator
	store     *store.Store
	executor  *executor.Executor
	prompts   *PromptBuilder
	formatter *response.Formatter
	timeout   time.Duration
	log       *zap.Logger
}

type Option func(*Interpreter)

// WithTimeout bounds each generator call
func WithTimeout(d time.Duration) Option {
	return func(in *Interpreter) {
		if d > 0 {
			in.timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(in *Interpreter) {
		if log != nil {
			in.log = log
		}
	}
}

func NewInterpreter(gen types.Generator, st *store.Store, ex *executor.Executor, opts ...Option) *Interpreter {
	company := ex.Company()
	in := &Interpreter{
		generator: gen,
		store:     st,
		executor:  ex,
		prompts:   NewPromptBuilder(company),
		formatter: response.NewFormatter(company.Currency),
		timeout:   defaultTimeout,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Formatter exposes the money and message formatting used for replies
func (in *Interpreter) Formatter() *response.Formatter {
	return in.formatter
}

// Handle answers one user message. It never fails; problems come back as
// display messages and the store is only touched once a complete command
// has been decoded.
func (in *Interpreter) Handle(ctx context.Context, text string) response.Response {
	text = strings.TrimSpace(text)
	if text == "" {
		return response.Plain("Please type a message.")
	}

	prompt, err := in.prompts.BuildChatPrompt(text, in.store.Snapshot())
	if err != nil {
		in.log.Error("failed to build prompt", zap.Error(err))
		return in.formatter.Format(command.KindPlainText, nil, err)
	}

	raw, err := in.complete(ctx, prompt, map[string]any{
		types.OptSystem:      in.prompts.System(),
		types.OptTemperature: 0.2,
	})
	if err != nil {
		return in.formatter.Format(command.KindPlainText, nil, err)
	}
	if strings.TrimSpace(raw) == "" {
		return response.Empty()
	}

	action, err := command.Decode(raw)
	if err != nil {
		if !errors.Is(err, command.ErrNotJSON) {
			in.log.Debug("reply is not a known command", zap.Error(err))
		}
		return response.Plain(raw)
	}

	// A decoded command runs to completion even if the caller goes away
	res, err := in.executor.Execute(context.WithoutCancel(ctx), action)
	if err != nil {
		in.log.Info("command failed",
			zap.String("action", string(action.Kind())),
			zap.Error(err),
		)
	} else {
		in.log.Debug("command executed", zap.String("action", string(action.Kind())))
	}
	return in.formatter.Format(action.Kind(), res, err)
}

// GenerateMockData asks the generator for a demo batch and appends it to the store
func (in *Interpreter) GenerateMockData(ctx context.Context) (store.MockDataResult, error) {
	raw, err := in.complete(ctx, in.prompts.BuildMockDataPrompt(), map[string]any{
		types.OptJSON:        true,
		types.OptTemperature: 0.8,
	})
	if err != nil {
		return store.MockDataResult{}, err
	}

	var batch struct {
		Products  []models.Product  `json:"products"`
		Customers []models.Customer `json:"customers"`
	}
	if err := json.Unmarshal([]byte(command.StripCodeFence(raw)), &batch); err != nil {
		return store.MockDataResult{}, fmt.Errorf("%w: %v", ErrMockData, err)
	}

	res, err := in.store.LoadMockData(batch.Products, batch.Customers)
	if err != nil {
		return store.MockDataResult{}, fmt.Errorf("load mock data: %w", err)
	}

	in.log.Info("mock data loaded",
		zap.Int("products", res.Products),
		zap.Int("customers", res.Customers),
	)
	return res, nil
}

func (in *Interpreter) complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	start := time.Now()
	raw, err := in.generator.Complete(callCtx, prompt, opts)
	if err != nil {
		in.log.Warn("generator call failed",
			zap.String("model", in.generator.Model()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	in.log.Debug("generator replied",
		zap.String("model", in.generator.Model()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)
	return raw, nil
}
