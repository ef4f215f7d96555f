// Package service orchestrates chat requests: it loads conversation
// memory, trims it to budget, resolves a provider and commits responses.
package service

import (
	"context"
	"fmt"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/history"
	"github.com/chatstack/chatcore/internal/llm"
	"github.com/chatstack/chatcore/internal/memory"
	"github.com/chatstack/chatcore/internal/provider"
	"github.com/chatstack/chatcore/internal/tokens"
)

// Service wires the chat core together.
type Service struct {
	cfg       *config.Config
	store     memory.Store
	factory   *provider.Factory
	checker   *provider.Checker
	chain     history.Processor
	window    *history.Window
	estimator *tokens.Estimator
}

// New creates the service, building the history processor chain from the
// configuration: recency filter, mid-pipeline token limit, then
// summarization. The summarizer's client is resolved lazily through the
// provider factory on first over-threshold conversation.
func New(cfg *config.Config, store memory.Store, factory *provider.Factory, checker *provider.Checker) (*Service, error) {
	estimator := tokens.NewEstimator()

	window, err := history.NewWindow(cfg.MaxTokens, cfg.ReserveTokens, estimator)
	if err != nil {
		return nil, fmt.Errorf("invalid context window config: %w", err)
	}

	recency, err := history.NewRecency(cfg.HistoryMaxTurns)
	if err != nil {
		return nil, fmt.Errorf("invalid recency config: %w", err)
	}

	tokenLimit, err := history.NewTokenLimit(cfg.HistoryMaxTokens, estimator)
	if err != nil {
		return nil, fmt.Errorf("invalid history token limit: %w", err)
	}

	summarizer, err := history.NewSummarizer(cfg.SummaryThreshold, cfg.SummaryKeepLast, func(ctx context.Context) (llm.Client, string, error) {
		handle, err := factory.ResolveRequest(ctx, cfg.DefaultProvider, "")
		if err != nil {
			return nil, "", err
		}
		return handle.Client, handle.Model, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid summarizer config: %w", err)
	}

	return &Service{
		cfg:       cfg,
		store:     store,
		factory:   factory,
		checker:   checker,
		chain:     history.NewChain(recency, tokenLimit, summarizer),
		window:    window,
		estimator: estimator,
	}, nil
}
