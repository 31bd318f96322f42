package main

import (
	"log"
	"os"

	"shop-assistant-be/internal/model"
	"shop-assistant-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate can't handle
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Product{},
		&model.FAQEntry{},
		&model.KnowledgeEntry{},
		&model.ProductEmbedding{},
		&model.ChatSession{},
		&model.ChatMessage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// 5. Post-Migration: expression indexes for full-text search and the
	// vector index. GORM tags cannot express these.
	log.Println("Step 3: Creating search indexes...")

	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_products_search ON products
			USING GIN (to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'') || ' ' || coalesce(tags::text,'')));`,
		`CREATE INDEX IF NOT EXISTS idx_faq_entries_search ON faq_entries
			USING GIN (to_tsvector('simple', coalesce(question,'') || ' ' || coalesce(answer,'') || ' ' || coalesce(keywords::text,'')));`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_entries_search ON knowledge_entries
			USING GIN (to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(content,'') || ' ' || coalesce(keywords::text,'')));`,
		`CREATE INDEX IF NOT EXISTS idx_product_embeddings_vector ON product_embeddings
			USING hnsw (embedding_value vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (chat_session_id, created_at);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_sessions_key ON chat_sessions (session_key);`,
	}

	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed successfully.")
}
