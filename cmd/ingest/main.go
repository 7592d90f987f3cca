package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/pkg/database"
	"ai-support-chat-be/pkg/embedding"
	"ai-support-chat-be/pkg/embedding/jina"
	"ai-support-chat-be/pkg/utils"

	"github.com/google/uuid"
)

// Loads a plain-text knowledge file, chunks it, embeds every chunk and
// replaces the stored documents for that source id.
func main() {
	filePath := flag.String("file", "", "path to the text file to ingest")
	sourceId := flag.String("source", "", "source id for the ingested document (defaults to file name)")
	chunkSize := flag.Int("chunk-size", 1500, "chunk size in characters")
	overlap := flag.Int("overlap", 200, "chunk overlap in characters")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Error: -file is required")
	}
	if *sourceId == "" {
		*sourceId = filepath.Base(*filePath)
	}

	cfg := config.Load()

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *filePath, err)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	ctx := context.Background()

	chunks := utils.SplitText(string(raw), *chunkSize, *overlap)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var documents []*entity.Document
	for i, chunk := range chunks {
		res, err := embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Fatalf("Error: Failed to generate embedding for chunk %d: %v", i, err)
		}

		documents = append(documents, &entity.Document{
			Id:       uuid.New(),
			SourceId: *sourceId,
			Content:  chunk,
			Payload: map[string]interface{}{
				"file": filepath.Base(*filePath),
			},
			Embedding:  res.Embedding.Values,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		})
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	defer uow.Rollback()

	log.Printf("[INFO] Replacing documents for source %s", *sourceId)
	if err := uow.DocumentRepository().DeleteBySourceId(ctx, *sourceId); err != nil {
		log.Fatalf("Error: Failed to delete old documents: %v", err)
	}

	if len(documents) > 0 {
		if err := uow.DocumentRepository().CreateBulk(ctx, documents); err != nil {
			log.Fatalf("Error: Failed to create documents: %v", err)
		}
	}

	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit transaction: %v", err)
	}

	log.Printf("✅ Success: Ingested %d chunks for source %s", len(documents), *sourceId)
}
