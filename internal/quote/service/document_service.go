package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const groupedCacheTTL = 5 * time.Minute

// WriteMode is the reconciliation decision for a comparison-document write.
// The two modes are mutually exclusive by construction: a write either
// regenerates every line from the referenced template set or replaces the
// stored lines verbatim — never a mix.
type WriteMode string

const (
	WriteRegenerate WriteMode = "regenerate"
	WriteOverwrite  WriteMode = "overwrite"
)

// DocumentService 견적 문서 서비스 (스냅샷 + 재조정)
type DocumentService struct {
	docRepo      *repository.DocumentRepository
	templateRepo *repository.TemplateRepository
	grouper      *Grouper
	rdb          *redis.Client
}

// NewDocumentService 견적 문서 서비스 생성. rdb는 nil이어도 동작한다.
func NewDocumentService(docRepo *repository.DocumentRepository, templateRepo *repository.TemplateRepository, rdb *redis.Client) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		templateRepo: templateRepo,
		grouper:      NewGrouper(DefaultMajorPriority),
		rdb:          rdb,
	}
}

// Grouper exposes the priority table for the export adapter.
func (s *DocumentService) Grouper() *Grouper {
	return s.grouper
}

// loadTemplates resolves every referenced template or fails with ErrNotFound.
func (s *DocumentService) loadTemplates(ctx context.Context, templateIDs []string) ([]entity.EquipmentTemplate, error) {
	tpls, err := s.templateRepo.FindByIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	if len(tpls) != len(dedupe(templateIDs)) {
		found := make(map[string]bool, len(tpls))
		for _, t := range tpls {
			found[t.ID] = true
		}
		for _, id := range templateIDs {
			if !found[id] {
				return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
			}
		}
	}
	return tpls, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CreateComparison 비교 문서 생성. 생성은 항상 재생성 경로이며 수동 경로가
// 없다. id를 넘기면 그 id로 멱등하게 재시도할 수 있다.
func (s *DocumentService) CreateComparison(ctx context.Context, id, parentID, creator string, templateIDs []string) (*entity.Document, error) {
	if id == "" {
		id = uuid.New().String()[:32]
	}
	tpls, err := s.loadTemplates(ctx, templateIDs)
	if err != nil {
		return nil, err
	}

	lines := linesFromTemplates(id, tpls)
	if err := s.grouper.ValidateLines(lines); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &entity.Document{
		ID:        id,
		ParentID:  parentID,
		Kind:      entity.DocKindPriceCompare,
		CreatedBy: creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.writeSnapshot(ctx, doc, templateIDs, lines, true); err != nil {
		return nil, err
	}
	s.invalidateGrouped(ctx, id)
	return s.GetDocument(ctx, id)
}

// UpdateComparison 비교 문서 쓰기 재조정. WriteRegenerate면 템플릿 집합을
// 다시 읽어 전 라인을 재생성하고(수동 수정은 버려진다), WriteOverwrite면
// 전달된 라인으로 통째로 덮어쓴다. 두 경우 모두 템플릿 연관은 갱신된다.
func (s *DocumentService) UpdateComparison(ctx context.Context, id, creator string, templateIDs []string, mode WriteMode, manual []entity.DocumentLine) (*entity.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != entity.DocKindPriceCompare {
		return nil, fmt.Errorf("%w: document %s is not a comparison document", ErrNotFound, id)
	}

	var lines []entity.DocumentLine
	switch mode {
	case WriteRegenerate:
		tpls, err := s.loadTemplates(ctx, templateIDs)
		if err != nil {
			return nil, err
		}
		lines = linesFromTemplates(id, tpls)
	case WriteOverwrite:
		if _, err := s.loadTemplates(ctx, templateIDs); err != nil {
			return nil, err
		}
		if err := s.checkManualLineOrigins(templateIDs, manual); err != nil {
			return nil, err
		}
		lines = linesFromInput(id, manual)
	default:
		return nil, fmt.Errorf("%w: unknown write mode %q", ErrInvalidLineData, mode)
	}

	// Fail fast: nothing is mutated unless the full batch is valid.
	if err := s.grouper.ValidateLines(lines); err != nil {
		return nil, err
	}

	doc.UpdatedAt = time.Now()
	if err := s.writeSnapshot(ctx, doc, templateIDs, lines, false); err != nil {
		return nil, err
	}
	s.invalidateGrouped(ctx, id)
	return s.GetDocument(ctx, id)
}

// checkManualLineOrigins rejects manual lines whose template reference is
// missing from the submitted template set, so provenance cannot silently rot.
func (s *DocumentService) checkManualLineOrigins(templateIDs []string, manual []entity.DocumentLine) error {
	allowed := make(map[string]bool, len(templateIDs))
	for _, id := range templateIDs {
		allowed[id] = true
	}
	for _, l := range manual {
		if l.TemplateID != "" && !allowed[l.TemplateID] {
			return fmt.Errorf("%w: line (%s/%s/%s) references template %s absent from template_ids",
				ErrReconciliationConflict, l.Major, l.Minor, l.Equipment, l.TemplateID)
		}
	}
	return nil
}

// writeSnapshot is the single transactional boundary of a reconciliation
// write: association rewrite and line rewrite (delete-all-then-insert-all)
// succeed or fail together so readers never observe a partial write.
func (s *DocumentService) writeSnapshot(ctx context.Context, doc *entity.Document, templateIDs []string, lines []entity.DocumentLine, create bool) error {
	now := time.Now()
	assocs := make([]entity.DocumentTemplate, 0, len(templateIDs))
	for _, tid := range dedupe(templateIDs) {
		assocs = append(assocs, entity.DocumentTemplate{
			DocumentID: doc.ID,
			TemplateID: tid,
			CreatedAt:  now,
		})
	}

	err := s.docRepo.DB().Transaction(func(tx *gorm.DB) error {
		if create {
			// Idempotent retry: a document left over from a failed earlier
			// attempt with the same id is rewritten wholesale.
			if err := tx.Where("id = ?", doc.ID).Delete(&entity.Document{}).Error; err != nil {
				return err
			}
			if err := tx.Create(doc).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&entity.Document{}).Where("id = ?", doc.ID).
				Update("updated_at", doc.UpdatedAt).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM document_templates WHERE document_id = ?", doc.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM document_lines WHERE document_id = ?", doc.ID).Error; err != nil {
			return err
		}
		if len(assocs) > 0 {
			if err := tx.Create(&assocs).Error; err != nil {
				return err
			}
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
	}
	return nil
}

// CreateDocumentInput 요약/내역 문서 생성 입력. 템플릿 집합 또는 수동 라인
// 중 한 쪽으로 라인을 채운다.
type CreateDocumentInput struct {
	ID          string
	ParentID    string
	Kind        string
	Title       string
	Creator     string
	TemplateIDs []string
	Lines       []entity.DocumentLine
}

// CreateDocument 요약(header)/내역(detailed) 문서 생성.
func (s *DocumentService) CreateDocument(ctx context.Context, in *CreateDocumentInput) (*entity.Document, error) {
	if in.Kind != entity.DocKindHeader && in.Kind != entity.DocKindDetailed {
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrInvalidLineData, in.Kind)
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()[:32]
	}

	var lines []entity.DocumentLine
	if len(in.Lines) > 0 {
		if err := s.checkManualLineOrigins(in.TemplateIDs, in.Lines); err != nil {
			return nil, err
		}
		lines = linesFromInput(id, in.Lines)
	} else {
		tpls, err := s.loadTemplates(ctx, in.TemplateIDs)
		if err != nil {
			return nil, err
		}
		lines = linesFromTemplates(id, tpls)
	}
	if err := s.grouper.ValidateLines(lines); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &entity.Document{
		ID:        id,
		ParentID:  in.ParentID,
		Kind:      in.Kind,
		Title:     in.Title,
		CreatedBy: in.Creator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.writeSnapshot(ctx, doc, in.TemplateIDs, lines, true); err != nil {
		return nil, err
	}
	s.invalidateGrouped(ctx, id)
	return s.GetDocument(ctx, id)
}

// UpdateDocument 요약/내역 문서의 라인 전체 교체. lines를 주면 그대로
// 덮어쓰고, 비우면 템플릿 집합으로 다시 채운다. 비교 문서는
// UpdateComparison을 써야 한다.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, templateIDs []string, manual []entity.DocumentLine) (*entity.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != entity.DocKindHeader && doc.Kind != entity.DocKindDetailed {
		return nil, fmt.Errorf("%w: document %s is not a header/detailed document", ErrNotFound, id)
	}

	var lines []entity.DocumentLine
	if len(manual) > 0 {
		if err := s.checkManualLineOrigins(templateIDs, manual); err != nil {
			return nil, err
		}
		lines = linesFromInput(id, manual)
	} else {
		tpls, err := s.loadTemplates(ctx, templateIDs)
		if err != nil {
			return nil, err
		}
		lines = linesFromTemplates(id, tpls)
	}
	if err := s.grouper.ValidateLines(lines); err != nil {
		return nil, err
	}

	doc.UpdatedAt = time.Now()
	if err := s.writeSnapshot(ctx, doc, templateIDs, lines, false); err != nil {
		return nil, err
	}
	s.invalidateGrouped(ctx, id)
	return s.GetDocument(ctx, id)
}

// GetDocument 문서 조회
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments 프로젝트/종류별 문서 목록
func (s *DocumentService) ListDocuments(ctx context.Context, parentID, kind string) ([]entity.Document, error) {
	return s.docRepo.ListByParent(ctx, parentID, kind)
}

// DeleteDocument 문서 삭제 (라인/템플릿 연관 연쇄 삭제)
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.GetDocument(ctx, id); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
	}
	s.invalidateGrouped(ctx, id)
	return nil
}

// GetGrouped 그룹핑/소계 투영 조회. 엔진 자체는 순수 함수이고 캐시는 그 앞단에만
// 있다; 문서 쓰기 때마다 무효화된다.
func (s *DocumentService) GetGrouped(ctx context.Context, id string) (*GroupedDocument, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, groupedCacheKey(id)).Result(); err == nil {
			var out GroupedDocument
			if json.Unmarshal([]byte(cached), &out) == nil {
				return &out, nil
			}
		}
	}

	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.docRepo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}

	sortLinesCanonical(s.grouper, lines)
	out, err := s.grouper.Group(doc, lines)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			s.rdb.Set(ctx, groupedCacheKey(id), raw, groupedCacheTTL)
		}
	}
	return out, nil
}

func groupedCacheKey(id string) string {
	return "quote:grouped:" + id
}

func (s *DocumentService) invalidateGrouped(ctx context.Context, id string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, groupedCacheKey(id))
	}
}
