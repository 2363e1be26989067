package mapper

import (
	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/model"
)

type TrainingMaterialMapper struct {
	files *FileUploadMapper
}

func NewTrainingMaterialMapper() *TrainingMaterialMapper {
	return &TrainingMaterialMapper{files: NewFileUploadMapper()}
}

func (m *TrainingMaterialMapper) ToEntity(t *model.TrainingMaterial) *entity.TrainingMaterial {
	if t == nil {
		return nil
	}

	attachments := make([]*entity.TrainingMaterialAttachment, 0, len(t.Attachments))
	for i := range t.Attachments {
		attachments = append(attachments, m.AttachmentToEntity(&t.Attachments[i]))
	}

	return &entity.TrainingMaterial{
		Id:            t.Id,
		Title:         t.Title,
		Category:      t.Category,
		Content:       t.Content,
		InternalNotes: t.InternalNotes,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Attachments:   attachments,
	}
}

// ToModel maps the material columns only; attachments are written through their own repository.
func (m *TrainingMaterialMapper) ToModel(t *entity.TrainingMaterial) *model.TrainingMaterial {
	if t == nil {
		return nil
	}
	return &model.TrainingMaterial{
		Id:            t.Id,
		Title:         t.Title,
		Category:      t.Category,
		Content:       t.Content,
		InternalNotes: t.InternalNotes,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m *TrainingMaterialMapper) ToEntities(models []*model.TrainingMaterial) []*entity.TrainingMaterial {
	entities := make([]*entity.TrainingMaterial, 0, len(models))
	for _, t := range models {
		entities = append(entities, m.ToEntity(t))
	}
	return entities
}

func (m *TrainingMaterialMapper) AttachmentToEntity(a *model.TrainingMaterialAttachment) *entity.TrainingMaterialAttachment {
	if a == nil {
		return nil
	}
	return &entity.TrainingMaterialAttachment{
		Id:                 a.Id,
		TrainingMaterialId: a.TrainingMaterialId,
		FileUploadId:       a.FileUploadId,
		Description:        a.Description,
		AttachedAt:         a.AttachedAt,
		File:               m.files.ToEntity(a.FileUpload),
	}
}

func (m *TrainingMaterialMapper) AttachmentToModel(a *entity.TrainingMaterialAttachment) *model.TrainingMaterialAttachment {
	if a == nil {
		return nil
	}
	return &model.TrainingMaterialAttachment{
		Id:                 a.Id,
		TrainingMaterialId: a.TrainingMaterialId,
		FileUploadId:       a.FileUploadId,
		Description:        a.Description,
		AttachedAt:         a.AttachedAt,
	}
}
