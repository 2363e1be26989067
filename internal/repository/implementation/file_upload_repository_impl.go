package implementation

import (
	"context"
	"errors"

	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/mapper"
	"onboarding-buddy-be/internal/model"
	"onboarding-buddy-be/internal/repository/contract"
	"onboarding-buddy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileUploadRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileUploadMapper
}

func NewFileUploadRepository(db *gorm.DB) contract.FileUploadRepository {
	return &FileUploadRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileUploadMapper(),
	}
}

func (r *FileUploadRepositoryImpl) Create(ctx context.Context, file *entity.FileUpload) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileUploadRepositoryImpl) Update(ctx context.Context, file *entity.FileUpload) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileUploadRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FileUpload{}, id).Error
}

func (r *FileUploadRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileUpload, error) {
	var m model.FileUpload
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FileUploadRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileUpload, error) {
	var models []*model.FileUpload
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
