package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"
	"shop-assistant-be/internal/repository/unitofwork"
	"shop-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ProductRepository())
	assert.NotNil(t, uow.ChatSessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Product Repository", func(t *testing.T) {
		count, err := uow.ProductRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Product count: %d", count)
	})

	t.Run("Check Product Embedding Repository", func(t *testing.T) {
		// Count implies the table and vector column exist
		count, err := uow.ProductEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ProductEmbedding count: %d", count)
	})

	t.Run("Check Transactional Session With Message", func(t *testing.T) {
		sessionId := uuid.New()
		session := &entity.ChatSession{
			Id:         sessionId,
			SessionKey: "integration-" + uuid.New().String(),
			Language:   "en",
			IsActive:   true,
		}

		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		message := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Role:          "user",
			Text:          "integration test message",
			Language:      "en",
		}

		err = uow.ChatMessageRepository().Create(ctx, message)
		assert.NoError(t, err)

		found, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
		assert.NoError(t, err)
		assert.Len(t, found, 1)

		err = uow.Commit()
		assert.NoError(t, err)

		// Cleanup outside the transaction
		cleanup := uowFactory.NewUnitOfWork(ctx)
		_ = cleanup.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId)
		_ = cleanup.ChatSessionRepository().Delete(ctx, sessionId)

		t.Log("Successfully created ChatSession with ChatMessage in Transaction")
	})
}
