package contract

import (
	"context"

	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TrainingMaterialRepository interface {
	Create(ctx context.Context, material *entity.TrainingMaterial) error
	Update(ctx context.Context, material *entity.TrainingMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingMaterial, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingMaterial, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	AddAttachment(ctx context.Context, attachment *entity.TrainingMaterialAttachment) error
	RemoveAttachment(ctx context.Context, materialID, fileUploadID uuid.UUID) error
}
