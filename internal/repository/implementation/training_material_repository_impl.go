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

type TrainingMaterialRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TrainingMaterialMapper
}

func NewTrainingMaterialRepository(db *gorm.DB) contract.TrainingMaterialRepository {
	return &TrainingMaterialRepositoryImpl{
		db:     db,
		mapper: mapper.NewTrainingMaterialMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TrainingMaterialRepositoryImpl) Create(ctx context.Context, material *entity.TrainingMaterial) error {
	m := r.mapper.ToModel(material)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*material = *r.mapper.ToEntity(m)
	return nil
}

func (r *TrainingMaterialRepositoryImpl) Update(ctx context.Context, material *entity.TrainingMaterial) error {
	m := r.mapper.ToModel(material)
	// Save writes zero values too, so IsActive=false sticks.
	if err := r.db.WithContext(ctx).Omit("Attachments").Save(m).Error; err != nil {
		return err
	}
	attachments := material.Attachments
	*material = *r.mapper.ToEntity(m)
	material.Attachments = attachments
	return nil
}

func (r *TrainingMaterialRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TrainingMaterial{}, id).Error
}

func (r *TrainingMaterialRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingMaterial, error) {
	var m model.TrainingMaterial
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TrainingMaterialRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingMaterial, error) {
	var models []*model.TrainingMaterial
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TrainingMaterialRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.TrainingMaterial{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TrainingMaterialRepositoryImpl) AddAttachment(ctx context.Context, attachment *entity.TrainingMaterialAttachment) error {
	m := r.mapper.AttachmentToModel(attachment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	attachment.Id = m.Id
	attachment.AttachedAt = m.AttachedAt
	return nil
}

func (r *TrainingMaterialRepositoryImpl) RemoveAttachment(ctx context.Context, materialID, fileUploadID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("training_material_id = ? AND file_upload_id = ?", materialID, fileUploadID).
		Delete(&model.TrainingMaterialAttachment{}).Error
}
