package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/SonakshiKundu06/FloatChat/corpus"
	"github.com/SonakshiKundu06/FloatChat/embedder"
	googleembedder "github.com/SonakshiKundu06/FloatChat/embedder/google"
	ollamaembedder "github.com/SonakshiKundu06/FloatChat/embedder/ollama"
	openaiembedder "github.com/SonakshiKundu06/FloatChat/embedder/openai"
	"github.com/SonakshiKundu06/FloatChat/loader"
	"github.com/SonakshiKundu06/FloatChat/loader/netcdf"
	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/store"
	memorystore "github.com/SonakshiKundu06/FloatChat/store/memory"
	postgresstore "github.com/SonakshiKundu06/FloatChat/store/postgres"
	qdrantstore "github.com/SonakshiKundu06/FloatChat/store/qdrant"
	sqlitestore "github.com/SonakshiKundu06/FloatChat/store/sqlite"
	"github.com/SonakshiKundu06/FloatChat/warehouse"
	sqlitewarehouse "github.com/SonakshiKundu06/FloatChat/warehouse/sqlite"
)

var (
	cfg struct {
		// Input config
		RawRoot   string `help:"Raw data root laid out as <year>/<file>.nc" default:"./data/raw"`
		BatchSize int    `help:"Documents per embedding batch" default:"200"`

		// Store config
		Store         string `help:"Vector store backend" enum:"sqlite,postgres,qdrant,memory" default:"sqlite"`
		StoreLocation string `help:"Store location: sqlite file path, postgres url, or qdrant url" env:"STORE_LOCATION" default:"./data/index/argo.db"`
		Collection    string `help:"Collection or table name" default:"argo_profiles"`
		VectorSize    int    `help:"Embedding dimension for qdrant and postgres" default:"1536"`

		// Embedder config
		Embedder      string `help:"Embedding backend" enum:"openai,google,ollama" default:"openai"`
		EmbedderKey   string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
		EmbedderModel string `help:"Model identifier for the embedder" env:"EMBED_MODEL" default:"text-embedding-3-small"`

		// Local model config
		OllamaLocation string `help:"Base URL of a local Ollama endpoint" env:"OLLAMA_BASE_URL" default:"http://localhost:11434"`

		// Warehouse config
		WarehouseLocation string `help:"Optional sqlite warehouse for ad-hoc queries over the raw records" default:""`
	}
)

func main() {
	godotenv.Load()
	_ = kong.Parse(&cfg)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx := context.Background()

	records, err := loader.LoadAll(ctx, netcdf.NewDecoder(), cfg.RawRoot)
	if err != nil {
		slog.Error("load failed", "root", cfg.RawRoot, "error", err)
		os.Exit(1)
	}

	slog.Info("loaded raw records", "rows", len(records))

	builder := corpus.New(
		retriever.New(newEmbedder(), newStore()),
		corpus.WithBatchSize(cfg.BatchSize),
	)

	indexed, err := builder.Build(ctx, records)
	if err != nil {
		slog.Error("corpus build failed", "indexed", indexed, "error", err)
		os.Exit(1)
	}

	slog.Info("ingest complete", "documents", indexed)

	if len(cfg.WarehouseLocation) == 0 {
		return
	}

	wh := sqlitewarehouse.NewWarehouse(
		warehouse.WithLocation(cfg.WarehouseLocation),
	)
	defer wh.Close()

	if err := wh.Load(ctx, records); err != nil {
		slog.Error("warehouse load failed", "error", err)
		os.Exit(1)
	}

	counts, err := wh.CountByYear(ctx)
	if err != nil {
		slog.Error("warehouse query failed", "error", err)
		os.Exit(1)
	}

	for _, yc := range counts {
		slog.Info("warehouse rows", "year", yc.Year, "count", yc.Count)
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
