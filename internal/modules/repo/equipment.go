package repo

import (
	"context"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"gorm.io/gorm"
)

type EquipmentRepo interface {
	ListByProject(ctx context.Context, projectID string) ([]model.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type equipmentRepo struct{ db *gorm.DB }

func NewEquipmentRepo(db *gorm.DB) EquipmentRepo {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) ListByProject(ctx context.Context, projectID string) ([]model.Equipment, error) {
	var items []model.Equipment
	return items, r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&items).Error
}

func (r *equipmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Equipment{}).Error
}
