package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/skills"
)

// runtime is the configuration and logger shared by every subcommand.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &runtime{cfg: cfg, log: log}, nil
}

func (rt *runtime) close() {
	_ = rt.log.Sync()
}

// matcher loads the configured vocabulary and builds a matcher with the configured options.
func (rt *runtime) matcher(ctx context.Context) (*skills.Matcher, error) {
	m := rt.cfg.Matching
	vocab, synonyms, err := skills.NewProvider(m.VocabularyPath, m.VocabularyURL, m.InheritSynonyms).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	mode, err := skills.ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	rt.log.Debug("vocabulary loaded", zap.Strings("domains", vocab.Domains()))
	return skills.NewMatcher(vocab, synonyms, skills.Options{
		Threshold:    m.Threshold,
		Mode:         mode,
		DetectDomain: m.DetectDomain,
	})
}

func (rt *runtime) screener(ctx context.Context, opts ...pipeline.Option) (*pipeline.Screener, error) {
	matcher, err := rt.matcher(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.Option{pipeline.WithConcurrency(rt.cfg.Matching.Concurrency)}, opts...)
	return pipeline.NewScreener(matcher, rt.log, opts...), nil
}

// llmClient returns nil without an error when no API key is configured.
func (rt *runtime) llmClient(ctx context.Context) (llm.Client, error) {
	if rt.cfg.LLM.APIKey == "" {
		return nil, nil
	}
	llmCfg, err := llm.NewConfig(rt.cfg.LLM.Provider, rt.cfg.LLM.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg, rt.cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	logger.WithModel(rt.log, string(llmCfg.Provider), client.GetModel(llm.ParseTier(rt.cfg.LLM.Tier))).Debug("LLM client ready")
	return client, nil
}

func (rt *runtime) requireLLMClient(ctx context.Context) (llm.Client, error) {
	client, err := rt.llmClient(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("no LLM API key configured (set GEMINI_API_KEY or llm.api_key)")
	}
	return client, nil
}

func (rt *runtime) store(ctx context.Context) (db.Store, error) {
	if rt.cfg.Database.URL == "" {
		return nil, errors.New("no database configured (set DATABASE_URL or database.url)")
	}
	store, err := db.Open(ctx, rt.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
