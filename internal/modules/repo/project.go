package repo

import (
	"context"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	ListByFirm(ctx context.Context, firmID string, sess model.SessionContext) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, id string, patch model.ProjectPatch) error
	Delete(ctx context.Context, id string) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

// ListByFirm returns the projects of firmID; sessions that see all firms get every project.
func (r *projectRepo) ListByFirm(ctx context.Context, firmID string, sess model.SessionContext) ([]model.Project, error) {
	q := r.db.WithContext(ctx)
	if !sess.SeesAllFirms() {
		q = q.Where("firm_id = ?", firmID)
	}

	var items []model.Project
	return items, q.Order("created_at ASC, id ASC").Find(&items).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update writes only the patched columns. A missing row yields gorm.ErrRecordNotFound.
func (r *projectRepo) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(patch.Columns())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
