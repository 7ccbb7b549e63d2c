package repository

import (
	"context"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) DB() *gorm.DB {
	return r.db
}

// Create 문서 생성
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindByID 문서 조회 (라인/템플릿 연관 포함)
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Templates").
		First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByParent 상위 그룹의 문서 목록
func (r *DocumentRepository) ListByParent(ctx context.Context, parentID, kind string) ([]entity.Document, error) {
	var docs []entity.Document
	query := r.db.WithContext(ctx).Model(&entity.Document{})
	if parentID != "" {
		query = query.Where("parent_id = ?", parentID)
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	err := query.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// ListLines 문서 라인 목록 (순서 없는 집합; 표시 순서는 읽기 시점에 계산)
func (r *DocumentRepository) ListLines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	var lines []entity.DocumentLine
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Find(&lines).Error
	return lines, err
}

// ListTemplateIDs 문서가 참조하는 템플릿 ID 목록
func (r *DocumentRepository) ListTemplateIDs(ctx context.Context, documentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.DocumentTemplate{}).
		Where("document_id = ?", documentID).
		Order("template_id ASC").
		Pluck("template_id", &ids).Error
	return ids, err
}

// Delete 문서 삭제 (라인/연관까지)
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.DocumentLine{}, "document_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.DocumentTemplate{}, "document_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Document{}, "id = ?", id).Error
	})
}
