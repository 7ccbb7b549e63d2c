package repository

import (
	"context"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) DB() *gorm.DB {
	return r.db
}

// Create 템플릿 생성
func (r *TemplateRepository) Create(ctx context.Context, tpl *entity.EquipmentTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

// FindByID 템플릿 조회 (라인은 order_index 순으로 로드)
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.EquipmentTemplate, error) {
	var tpl entity.EquipmentTemplate
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&tpl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindByIDs 복수 템플릿 조회 (라인 포함)
func (r *TemplateRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.EquipmentTemplate, error) {
	if len(ids) == 0 {
		return []entity.EquipmentTemplate{}, nil
	}
	var tpls []entity.EquipmentTemplate
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("id IN ?", ids).
		Find(&tpls).Error
	return tpls, err
}

// List 템플릿 목록
func (r *TemplateRepository) List(ctx context.Context) ([]entity.EquipmentTemplate, error) {
	var tpls []entity.EquipmentTemplate
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tpls).Error
	return tpls, err
}

// Update 템플릿 수정
func (r *TemplateRepository) Update(ctx context.Context, tpl *entity.EquipmentTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

// Delete 템플릿 삭제 (라인까지 함께 삭제)
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.TemplateLine{}, "template_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.EquipmentTemplate{}, "id = ?", id).Error
	})
}

// CreateLine 템플릿 라인 추가
func (r *TemplateRepository) CreateLine(ctx context.Context, line *entity.TemplateLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// FindLine 템플릿 라인 조회
func (r *TemplateRepository) FindLine(ctx context.Context, templateID, makerID, partID string) (*entity.TemplateLine, error) {
	var line entity.TemplateLine
	err := r.db.WithContext(ctx).
		First(&line, "template_id = ? AND maker_id = ? AND part_id = ?", templateID, makerID, partID).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ListLines 템플릿 라인 목록 (order_index 순)
func (r *TemplateRepository) ListLines(ctx context.Context, templateID string) ([]entity.TemplateLine, error) {
	var lines []entity.TemplateLine
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("order_index ASC").
		Find(&lines).Error
	return lines, err
}

// UpdateLine 템플릿 라인 수정
func (r *TemplateRepository) UpdateLine(ctx context.Context, line *entity.TemplateLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// CountLines 템플릿 라인 수
func (r *TemplateRepository) CountLines(ctx context.Context, templateID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TemplateLine{}).
		Where("template_id = ?", templateID).Count(&count).Error
	return count, err
}

// CountLinesForPart 특정 품목을 참조하는 라인 수 (품목 삭제 가드)
func (r *TemplateRepository) CountLinesForPart(ctx context.Context, makerID, partID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TemplateLine{}).
		Where("maker_id = ? AND part_id = ?", makerID, partID).Count(&count).Error
	return count, err
}
