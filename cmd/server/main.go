package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/SonakshiKundu06/FloatChat/embedder"
	googleembedder "github.com/SonakshiKundu06/FloatChat/embedder/google"
	ollamaembedder "github.com/SonakshiKundu06/FloatChat/embedder/ollama"
	openaiembedder "github.com/SonakshiKundu06/FloatChat/embedder/openai"
	"github.com/SonakshiKundu06/FloatChat/generator"
	anthropicgenerator "github.com/SonakshiKundu06/FloatChat/generator/anthropic"
	ollamagenerator "github.com/SonakshiKundu06/FloatChat/generator/ollama"
	openaigenerator "github.com/SonakshiKundu06/FloatChat/generator/openai"
	"github.com/SonakshiKundu06/FloatChat/internal/service/chat"
	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/server"
	httpserver "github.com/SonakshiKundu06/FloatChat/server/http"
	"github.com/SonakshiKundu06/FloatChat/store"
	memorystore "github.com/SonakshiKundu06/FloatChat/store/memory"
	postgresstore "github.com/SonakshiKundu06/FloatChat/store/postgres"
	qdrantstore "github.com/SonakshiKundu06/FloatChat/store/qdrant"
	sqlitestore "github.com/SonakshiKundu06/FloatChat/store/sqlite"
	"github.com/SonakshiKundu06/FloatChat/synthesizer"
)

var (
	cfg struct {
		// Server config
		Address        string        `help:"HTTP listen address" default:":8000"`
		RequestTimeout time.Duration `help:"Per-request timeout around retrieval and generation" default:"60s"`
		TopK           int           `help:"Number of documents to retrieve per question" default:"5"`

		// Store config
		Store         string `help:"Vector store backend" enum:"sqlite,postgres,qdrant,memory" default:"sqlite"`
		StoreLocation string `help:"Store location: sqlite file path, postgres url, or qdrant url" env:"STORE_LOCATION" default:"./data/index/argo.db"`
		Collection    string `help:"Collection or table name" default:"argo_profiles"`
		VectorSize    int    `help:"Embedding dimension for qdrant and postgres" default:"1536"`

		// Embedder config
		Embedder      string `help:"Embedding backend" enum:"openai,google,ollama" default:"openai"`
		EmbedderKey   string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
		EmbedderModel string `help:"Model identifier for the embedder" env:"EMBED_MODEL" default:"text-embedding-3-small"`

		// Generator config
		Generator      string `help:"Generation backend" enum:"openai,anthropic,ollama" default:"openai"`
		GeneratorKey   string `help:"API key for the generator" env:"OPENAI_API_KEY" default:""`
		GeneratorModel string `help:"Model identifier for the generator" default:"gpt-4o-mini"`

		// Local model config
		OllamaLocation string `help:"Base URL of a local Ollama endpoint" env:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	}
)

func main() {
	godotenv.Load()
	_ = kong.Parse(&cfg)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	service := chat.New(
		retriever.New(newEmbedder(), newStore()),
		synthesizer.New(newGenerator()),
		cfg.TopK,
	)

	srv := httpserver.NewServer(
		service,
		server.WithAddress(cfg.Address),
		server.WithRequestTimeout(cfg.RequestTimeout),
		httpserver.WithMiddleware(httpserver.CORS),
	)

	errCh := make(chan error, 1)

	go func() {
		slog.Info("serving", "address", cfg.Address, "store", cfg.Store, "location", cfg.StoreLocation)
		errCh <- srv.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

func newStore() store.Store {
	switch cfg.Store {
	case "postgres":
		return postgresstore.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
			store.WithVectorSize(cfg.VectorSize),
		)
	case "qdrant":
		return qdrantstore.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
			store.WithVectorSize(cfg.VectorSize),
		)
	case "memory":
		return memorystore.NewStore()
	default:
		return sqlitestore.NewStore(
			store.WithLocation(cfg.StoreLocation),
			store.WithCollection(cfg.Collection),
		)
	}
}

func newEmbedder() embedder.Embedder {
	switch cfg.Embedder {
	case "google":
		return googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	case "ollama":
		return ollamaembedder.NewEmbedder(
			embedder.WithLocation(cfg.OllamaLocation),
			embedder.WithModel(cfg.EmbedderModel),
		)
	default:
		return openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	}
}

func newGenerator() generator.Generator {
	switch cfg.Generator {
	case "anthropic":
		return anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	case "ollama":
		return ollamagenerator.NewGenerator(
			generator.WithLocation(cfg.OllamaLocation),
			generator.WithModel(cfg.GeneratorModel),
		)
	default:
		return openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	}
}
