package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/repository/contract"
	"onboarding-buddy-be/internal/repository/specification"
	"onboarding-buddy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memoryDB backs the fake unit of work. Only the specifications the services
// use are interpreted; ordering and preload specs are no-ops.
type memoryDB struct {
	mu        sync.Mutex
	materials map[uuid.UUID]*entity.TrainingMaterial
	files     map[uuid.UUID]*entity.FileUpload
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		materials: make(map[uuid.UUID]*entity.TrainingMaterial),
		files:     make(map[uuid.UUID]*entity.FileUpload),
	}
}

func (db *memoryDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUoW{db: db}
}

type memoryUoW struct {
	db *memoryDB
}

func (u *memoryUoW) Begin(ctx context.Context) error { return nil }
func (u *memoryUoW) Commit() error                   { return nil }
func (u *memoryUoW) Rollback() error                 { return nil }

func (u *memoryUoW) TrainingMaterialRepository() contract.TrainingMaterialRepository {
	return &memoryMaterialRepo{db: u.db}
}

func (u *memoryUoW) FileUploadRepository() contract.FileUploadRepository {
	return &memoryFileRepo{db: u.db}
}

func matchMaterial(m *entity.TrainingMaterial, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if m.Id != s.ID {
				return false
			}
		case specification.ActiveOnly:
			if !m.IsActive {
				return false
			}
		case specification.ByCategory:
			if m.Category != s.Category {
				return false
			}
		case specification.MatchingTerm:
			term := strings.ToLower(s.Term)
			if !strings.Contains(strings.ToLower(m.Title+" "+m.Category+" "+m.Content), term) {
				return false
			}
		}
	}
	return true
}

type memoryMaterialRepo struct {
	db *memoryDB
}

func (r *memoryMaterialRepo) Create(ctx context.Context, material *entity.TrainingMaterial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	clone := *material
	r.db.materials[material.Id] = &clone
	return nil
}

func (r *memoryMaterialRepo) Update(ctx context.Context, material *entity.TrainingMaterial) error {
	return r.Create(ctx, material)
}

func (r *memoryMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.materials, id)
	return nil
}

func (r *memoryMaterialRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TrainingMaterial, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memoryMaterialRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingMaterial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := make([]*entity.TrainingMaterial, 0)
	for _, m := range r.db.materials {
		if matchMaterial(m, specs) {
			clone := *m
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			result = paginate(result, page)
		}
	}
	return result, nil
}

func (r *memoryMaterialRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *memoryMaterialRepo) AddAttachment(ctx context.Context, attachment *entity.TrainingMaterialAttachment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := r.db.materials[attachment.TrainingMaterialId]
	clone := *attachment
	clone.File = r.db.files[attachment.FileUploadId]
	m.Attachments = append(m.Attachments, &clone)
	return nil
}

func (r *memoryMaterialRepo) RemoveAttachment(ctx context.Context, materialID, fileUploadID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := r.db.materials[materialID]
	kept := m.Attachments[:0]
	for _, a := range m.Attachments {
		if a.FileUploadId != fileUploadID {
			kept = append(kept, a)
		}
	}
	m.Attachments = kept
	return nil
}

type memoryFileRepo struct {
	db *memoryDB
}

func (r *memoryFileRepo) Create(ctx context.Context, file *entity.FileUpload) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	clone := *file
	r.db.files[file.Id] = &clone
	return nil
}

func (r *memoryFileRepo) Update(ctx context.Context, file *entity.FileUpload) error {
	return r.Create(ctx, file)
}

func (r *memoryFileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.files, id)
	return nil
}

func (r *memoryFileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileUpload, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memoryFileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	result := make([]*entity.FileUpload, 0)
	for _, f := range r.db.files {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				ok = ok && f.Id == s.ID
			case specification.ByIDs:
				found := false
				for _, id := range s.IDs {
					found = found || f.Id == id
				}
				ok = ok && found
			case specification.BySessionID:
				ok = ok && f.SessionId == s.SessionID
			}
		}
		if ok {
			clone := *f
			result = append(result, &clone)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Column == "uploaded_at" {
			sort.Slice(result, func(i, j int) bool {
				if order.Desc {
					return result[i].UploadedAt.After(result[j].UploadedAt)
				}
				return result[i].UploadedAt.Before(result[j].UploadedAt)
			})
		}
	}
	return result, nil
}

func paginate[T any](items []T, page specification.Pagination) []T {
	if page.Offset >= len(items) {
		return items[:0]
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

type recordedChange struct {
	MaterialID uuid.UUID
	Action     string
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []recordedChange
	err     error
}

func (p *recordingPublisher) PublishMaterialsChanged(ctx context.Context, materialID uuid.UUID, action string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, recordedChange{MaterialID: materialID, Action: action})
	return p.err
}

func (p *recordingPublisher) Changes() []recordedChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedChange(nil), p.changes...)
}
