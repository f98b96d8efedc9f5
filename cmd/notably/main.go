package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/config"
	"github.com/notably-app/notably/internal/db"
	dbRedis "github.com/notably-app/notably/internal/db/redis"
	logpkg "github.com/notably-app/notably/internal/logger"
	"github.com/notably-app/notably/internal/metrics"
	chatrepo "github.com/notably-app/notably/internal/repository/chat"
	clientrepo "github.com/notably-app/notably/internal/repository/client"
	"github.com/notably-app/notably/internal/repository/embcache"
	folderrepo "github.com/notably-app/notably/internal/repository/folder"
	noterepo "github.com/notably-app/notably/internal/repository/note"
	projectrepo "github.com/notably-app/notably/internal/repository/project"
	summaryrepo "github.com/notably-app/notably/internal/repository/summary"
	"github.com/notably-app/notably/internal/storage"
	chiTransport "github.com/notably-app/notably/internal/transport/chi"
	openaiT "github.com/notably-app/notably/internal/transport/openai"
	answeruc "github.com/notably-app/notably/internal/usecase/answer"
	chatuc "github.com/notably-app/notably/internal/usecase/chat"
	clientuc "github.com/notably-app/notably/internal/usecase/client"
	folderuc "github.com/notably-app/notably/internal/usecase/folder"
	healthuc "github.com/notably-app/notably/internal/usecase/health"
	noteuc "github.com/notably-app/notably/internal/usecase/note"
	projectuc "github.com/notably-app/notably/internal/usecase/project"
	searchuc "github.com/notably-app/notably/internal/usecase/search"
	summaryuc "github.com/notably-app/notably/internal/usecase/summary"
	"github.com/notably-app/notably/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting notably API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register LLM metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	keyPrefix := cfg.Storage.KeyPrefix

	// Ensure the vector index over notes exists before serving traffic.
	indexDef := noterepo.IndexDefinition(
		keyPrefix, cfg.OpenAI.VectorDim,
		cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct,
	)
	if err := store.CreateIndex(ctx, indexDef); err != nil && !errors.Is(err, db.ErrIndexExists) {
		logger.Fatal("Failed to create note index", zap.Error(err))
	}

	// Provider clients. The embedder is wrapped in a cache so repeated
	// note saves and searches do not re-buy the same vectors.
	baseEmbedder := openaiT.NewEmbedder(&openaiT.Config{
		APIKey:   cfg.OpenAI.APIKey,
		BaseURL:  cfg.OpenAI.BaseURL,
		Model:    cfg.OpenAI.EmbeddingModel,
		Provider: "openai",
		Logger:   logger,
	})
	embedder := embcache.New(baseEmbedder, store, keyPrefix, metrics.EmbeddingCacheTotal, logger)
	completer := openaiT.NewCompleter(&openaiT.Config{
		APIKey:   cfg.OpenAI.APIKey,
		BaseURL:  cfg.OpenAI.BaseURL,
		Provider: "openai",
		Logger:   logger,
	})
	logger.Info("Provider clients created",
		zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
		zap.Int("dimensions", cfg.OpenAI.VectorDim),
	)

	// Repositories
	noteRepo := noterepo.New(store, keyPrefix)
	folderRepo := folderrepo.New(store, keyPrefix)
	chatRepo := chatrepo.New(store, keyPrefix)
	clientRepo := clientrepo.New(store, keyPrefix)
	projectRepo := projectrepo.New(store, keyPrefix)
	summaryRepo := summaryrepo.New(store, keyPrefix)

	// Blob storage and signed URL issuing
	blobs := storage.NewBlobStore(store, keyPrefix, cfg.Storage.MaxFileBytes)
	signer := storage.NewSigner(
		cfg.Storage.SigningSecret, cfg.HTTP.BaseURL,
		time.Duration(cfg.Storage.URLTTLSec)*time.Second,
	)

	// Use case services
	searchSvc := searchuc.New(noteRepo, embedder, logger).
		WithTuning(cfg.Search.DefaultLimit, cfg.Search.MatchThreshold, cfg.Search.ProjectThreshold)
	answerSvc := answeruc.New(completer, logger).
		WithModels(cfg.OpenAI.AnswerModel, cfg.OpenAI.ProjectModel, "").
		WithMaxTokens(cfg.OpenAI.AnswerMaxTokens)
	noteSvc := noteuc.New(noteRepo, embedder, summaryRepo, searchSvc, answerSvc, logger)
	folderSvc := folderuc.New(folderRepo, logger)
	chatSvc := chatuc.New(chatRepo, noteRepo, searchSvc, answerSvc, logger)
	clientSvc := clientuc.New(clientRepo)
	projectSvc := projectuc.New(
		projectRepo, clientRepo, blobs, urlSigner{signer},
		searchSvc, answerSvc, logger,
	)
	summarySvc := summaryuc.New(noteRepo, summaryRepo, completer, logger).
		WithModel(cfg.OpenAI.SummaryModel)
	healthSvc := healthuc.New(store, baseEmbedder)

	// Bearer token -> user mapping
	tokens := make(map[string]string, len(cfg.Auth.Tokens))
	for _, t := range cfg.Auth.Tokens {
		tokens[t.Token] = t.UserID
	}

	server := chiTransport.NewServer(
		noteSvc, folderSvc, chatSvc, clientSvc, projectSvc, summarySvc,
		healthSvc, signer, logger,
	)
	handler := server.Router(chiTransport.BearerAuthMiddleware(tokens))

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// urlSigner adapts the HMAC signer to the project service. Signing never
// fails locally; the fallible interface leaves room for an external signer.
type urlSigner struct {
	s *storage.Signer
}

func (a urlSigner) SignedURL(method, fileID string) (string, error) {
	return a.s.SignedURL(method, fileID), nil
}
