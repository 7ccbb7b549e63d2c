package repository

import (
	"context"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) DB() *gorm.DB {
	return r.db
}

// Create 품목 등록
func (r *PartRepository) Create(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// FindByKey (maker_id, part_id)로 품목 조회
func (r *PartRepository) FindByKey(ctx context.Context, makerID, partID string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).
		First(&part, "maker_id = ? AND part_id = ?", makerID, partID).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

// List 품목 목록 (display_order 순)
func (r *PartRepository) List(ctx context.Context, major, minor string) ([]entity.Part, error) {
	var parts []entity.Part
	query := r.db.WithContext(ctx).Model(&entity.Part{})
	if major != "" {
		query = query.Where("major = ?", major)
	}
	if minor != "" {
		query = query.Where("minor = ?", minor)
	}
	err := query.Order("display_order ASC").Find(&parts).Error
	return parts, err
}

// Update 품목 수정
func (r *PartRepository) Update(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// UpdatePrice 단가만 수정
func (r *PartRepository) UpdatePrice(ctx context.Context, makerID, partID string, price int64) error {
	return r.db.WithContext(ctx).Model(&entity.Part{}).
		Where("maker_id = ? AND part_id = ?", makerID, partID).
		Update("price", price).Error
}

// Delete 품목 삭제
func (r *PartRepository) Delete(ctx context.Context, makerID, partID string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Part{}, "maker_id = ? AND part_id = ?", makerID, partID).Error
}

// Count 품목 수
func (r *PartRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Part{}).Count(&count).Error
	return count, err
}

// MaxDisplayOrder 현재 최대 display_order (품목 없으면 0)
func (r *PartRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var maxOrder *int
	err := r.db.WithContext(ctx).Model(&entity.Part{}).
		Select("MAX(display_order)").Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder, nil
}

// ExistsDisplayOrder display_order 충돌 여부
func (r *PartRepository) ExistsDisplayOrder(ctx context.Context, order int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Part{}).
		Where("display_order = ?", order).Count(&count).Error
	return count > 0, err
}
