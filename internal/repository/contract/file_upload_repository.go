package contract

import (
	"context"

	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FileUploadRepository interface {
	Create(ctx context.Context, file *entity.FileUpload) error
	Update(ctx context.Context, file *entity.FileUpload) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileUpload, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileUpload, error)
}
