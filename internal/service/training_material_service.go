package service

import (
	"context"
	"strings"
	"time"

	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/pkg/serverutils"
	"onboarding-buddy-be/internal/repository/specification"
	"onboarding-buddy-be/internal/repository/unitofwork"
	"onboarding-buddy-be/pkg/events"

	"github.com/google/uuid"
)

const trainingMaterialModule = "TrainingMaterialService"

type ITrainingMaterialService interface {
	GetAll(ctx context.Context, query *dto.ListTrainingMaterialsQuery) ([]*dto.TrainingMaterialResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.TrainingMaterialResponse, error)
	Create(ctx context.Context, req *dto.CreateTrainingMaterialRequest) (*dto.TrainingMaterialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTrainingMaterialRequest) (*dto.TrainingMaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string) ([]*dto.TrainingMaterialResponse, error)
	GetByCategory(ctx context.Context, category string) ([]*dto.TrainingMaterialResponse, error)
	AttachFile(ctx context.Context, materialID uuid.UUID, req *dto.AttachFileRequest) (*dto.TrainingMaterialResponse, error)
	RemoveAttachment(ctx context.Context, materialID, fileUploadID uuid.UUID) error

	// ListActive feeds context selection.
	ListActive(ctx context.Context) ([]*entity.TrainingMaterial, error)
}

type trainingMaterialService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewTrainingMaterialService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) ITrainingMaterialService {
	return &trainingMaterialService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *trainingMaterialService) GetAll(ctx context.Context, query *dto.ListTrainingMaterialsQuery) ([]*dto.TrainingMaterialResponse, error) {
	page := specification.Pagination{}
	if query != nil {
		if query.Limit < 0 || query.Offset < 0 {
			return nil, serverutils.NewBadRequestError("limit and offset must not be negative")
		}
		page = specification.Pagination{Limit: query.Limit, Offset: query.Offset}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	materials, err := uow.TrainingMaterialRepository().FindAll(ctx,
		specification.WithAttachments{},
		specification.CanonicalMaterialOrder{},
		page,
	)
	if err != nil {
		return nil, err
	}
	return toMaterialResponses(materials), nil
}

func (s *trainingMaterialService) ListActive(ctx context.Context) ([]*entity.TrainingMaterial, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TrainingMaterialRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.WithAttachments{},
		specification.CanonicalMaterialOrder{},
	)
}

func (s *trainingMaterialService) Show(ctx context.Context, id uuid.UUID) (*dto.TrainingMaterialResponse, error) {
	material, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

func (s *trainingMaterialService) find(ctx context.Context, id uuid.UUID) (*entity.TrainingMaterial, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	material, err := uow.TrainingMaterialRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.WithAttachments{},
	)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, serverutils.NewNotFoundError("training material not found")
	}
	return material, nil
}

func (s *trainingMaterialService) Create(ctx context.Context, req *dto.CreateTrainingMaterialRequest) (*dto.TrainingMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	material := entity.TrainingMaterial{
		Id:            uuid.New(),
		Title:         strings.TrimSpace(req.Title),
		Category:      strings.TrimSpace(req.Category),
		Content:       req.Content,
		InternalNotes: req.InternalNotes,
		IsActive:      isActive,
		CreatedAt:     time.Now(),
	}
	if err := uow.TrainingMaterialRepository().Create(ctx, &material); err != nil {
		return nil, err
	}

	s.announce(ctx, material.Id, events.ActionCreated)
	return toMaterialResponse(&material), nil
}

func (s *trainingMaterialService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTrainingMaterialRequest) (*dto.TrainingMaterialResponse, error) {
	material, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	material.Title = strings.TrimSpace(req.Title)
	material.Category = strings.TrimSpace(req.Category)
	material.Content = req.Content
	material.InternalNotes = req.InternalNotes
	if req.IsActive != nil {
		material.IsActive = *req.IsActive
	}
	material.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TrainingMaterialRepository().Update(ctx, material); err != nil {
		return nil, err
	}

	s.announce(ctx, material.Id, events.ActionUpdated)
	return toMaterialResponse(material), nil
}

func (s *trainingMaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TrainingMaterialRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.announce(ctx, id, events.ActionDeleted)
	return nil
}

func (s *trainingMaterialService) Search(ctx context.Context, term string) ([]*dto.TrainingMaterialResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, serverutils.NewBadRequestError("search term is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	materials, err := uow.TrainingMaterialRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.MatchingTerm{Term: term},
		specification.WithAttachments{},
		specification.CanonicalMaterialOrder{},
	)
	if err != nil {
		return nil, err
	}
	return toMaterialResponses(materials), nil
}

func (s *trainingMaterialService) GetByCategory(ctx context.Context, category string) ([]*dto.TrainingMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	materials, err := uow.TrainingMaterialRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.ByCategory{Category: category},
		specification.WithAttachments{},
		specification.CanonicalMaterialOrder{},
	)
	if err != nil {
		return nil, err
	}
	return toMaterialResponses(materials), nil
}

func (s *trainingMaterialService) AttachFile(ctx context.Context, materialID uuid.UUID, req *dto.AttachFileRequest) (*dto.TrainingMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	material, err := uow.TrainingMaterialRepository().FindOne(ctx, specification.ByID{ID: materialID})
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, serverutils.NewNotFoundError("training material not found")
	}

	file, err := uow.FileUploadRepository().FindOne(ctx, specification.ByID{ID: req.FileUploadId})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.NewNotFoundError("file not found")
	}

	attachment := entity.TrainingMaterialAttachment{
		Id:                 uuid.New(),
		TrainingMaterialId: materialID,
		FileUploadId:       file.Id,
		Description:        req.Description,
		AttachedAt:         time.Now(),
	}
	if err := uow.TrainingMaterialRepository().AddAttachment(ctx, &attachment); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announce(ctx, materialID, events.ActionAttachmentAdded)
	return s.Show(ctx, materialID)
}

func (s *trainingMaterialService) RemoveAttachment(ctx context.Context, materialID, fileUploadID uuid.UUID) error {
	if _, err := s.find(ctx, materialID); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TrainingMaterialRepository().RemoveAttachment(ctx, materialID, fileUploadID); err != nil {
		return err
	}

	s.announce(ctx, materialID, events.ActionAttachmentRemoved)
	return nil
}

// announce publishes a material change. The write already happened, so a
// failure is logged and not returned.
func (s *trainingMaterialService) announce(ctx context.Context, materialID uuid.UUID, action string) {
	if err := s.publisherService.PublishMaterialsChanged(ctx, materialID, action); err != nil {
		s.logger.Error(trainingMaterialModule, "Failed to publish material change", map[string]interface{}{
			"material_id": materialID.String(),
			"action":      action,
			"error":       err.Error(),
		})
		return
	}
	s.logger.Info(trainingMaterialModule, "Training material changed", map[string]interface{}{
		"material_id": materialID.String(),
		"action":      action,
	})
}

func toMaterialResponses(materials []*entity.TrainingMaterial) []*dto.TrainingMaterialResponse {
	result := make([]*dto.TrainingMaterialResponse, 0, len(materials))
	for _, m := range materials {
		result = append(result, toMaterialResponse(m))
	}
	return result
}

func toMaterialResponse(m *entity.TrainingMaterial) *dto.TrainingMaterialResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		res := dto.AttachmentResponse{
			Id:           a.Id,
			FileUploadId: a.FileUploadId,
			AttachedAt:   a.AttachedAt,
			Description:  a.Description,
		}
		if a.File != nil {
			res.FileName = a.File.FileName
			res.OriginalFileName = a.File.OriginalFileName
			res.FileSizeBytes = a.File.FileSizeBytes
			res.ContentType = a.File.ContentType
			res.IsProcessed = a.File.IsProcessed
		}
		attachments = append(attachments, res)
	}

	return &dto.TrainingMaterialResponse{
		Id:            m.Id,
		Title:         m.Title,
		Category:      m.Category,
		Content:       m.Content,
		InternalNotes: m.InternalNotes,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Attachments:   attachments,
	}
}
