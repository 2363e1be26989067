package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/model"
	"onboarding-buddy-be/internal/repository/specification"
	"onboarding-buddy-be/internal/repository/unitofwork"
	"onboarding-buddy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepositories(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.FileUpload{}, &model.TrainingMaterial{}, &model.TrainingMaterialAttachment{}))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	tag := uuid.NewString()[:8]
	active := &entity.TrainingMaterial{
		Id:       uuid.New(),
		Title:    "Integration Active " + tag,
		Category: "Integration-" + tag,
		Content:  "searchable-" + tag,
		IsActive: true,
	}
	inactive := &entity.TrainingMaterial{
		Id:       uuid.New(),
		Title:    "Integration Inactive " + tag,
		Category: "Integration-" + tag,
		IsActive: false,
	}
	require.NoError(t, uow.TrainingMaterialRepository().Create(ctx, active))
	require.NoError(t, uow.TrainingMaterialRepository().Create(ctx, inactive))
	t.Cleanup(func() {
		_ = uow.TrainingMaterialRepository().Delete(ctx, active.Id)
		_ = uow.TrainingMaterialRepository().Delete(ctx, inactive.Id)
	})

	t.Run("inactive flag survives create", func(t *testing.T) {
		got, err := uow.TrainingMaterialRepository().FindOne(ctx, specification.ByID{ID: inactive.Id})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsActive)
	})

	t.Run("category listing honours ActiveOnly", func(t *testing.T) {
		got, err := uow.TrainingMaterialRepository().FindAll(ctx,
			specification.ActiveOnly{},
			specification.ByCategory{Category: active.Category},
		)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, active.Id, got[0].Id)
	})

	t.Run("search matches content", func(t *testing.T) {
		got, err := uow.TrainingMaterialRepository().FindAll(ctx, specification.MatchingTerm{Term: "searchable-" + tag})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, active.Id, got[0].Id)
	})

	t.Run("attachment round trip in a transaction", func(t *testing.T) {
		file := &entity.FileUpload{
			Id:               uuid.New(),
			FileName:         uuid.NewString() + ".txt",
			OriginalFileName: "handbook.txt",
			ContentType:      "text/plain",
			FileSizeBytes:    12,
			FilePath:         "uploads/handbook.txt",
			ProcessedContent: "hello world!",
			IsProcessed:      true,
		}
		require.NoError(t, uow.FileUploadRepository().Create(ctx, file))
		t.Cleanup(func() { _ = uow.FileUploadRepository().Delete(ctx, file.Id) })

		tx := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		require.NoError(t, tx.TrainingMaterialRepository().AddAttachment(ctx, &entity.TrainingMaterialAttachment{
			Id:                 uuid.New(),
			TrainingMaterialId: active.Id,
			FileUploadId:       file.Id,
			AttachedAt:         time.Now().UTC(),
		}))
		require.NoError(t, tx.Commit())

		got, err := uow.TrainingMaterialRepository().FindOne(ctx, specification.ByID{ID: active.Id}, specification.WithAttachments{})
		require.NoError(t, err)
		require.Len(t, got.Attachments, 1)
		require.NotNil(t, got.Attachments[0].File)
		assert.Equal(t, "handbook.txt", got.Attachments[0].File.OriginalFileName)

		require.NoError(t, uow.TrainingMaterialRepository().RemoveAttachment(ctx, active.Id, file.Id))
	})
}
