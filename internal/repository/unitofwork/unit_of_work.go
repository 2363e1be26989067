package unitofwork

import (
	"context"

	"onboarding-buddy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TrainingMaterialRepository() contract.TrainingMaterialRepository
	FileUploadRepository() contract.FileUploadRepository
}
