package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateService 장비 템플릿 서비스
type TemplateService struct {
	templateRepo *repository.TemplateRepository
	partRepo     *repository.PartRepository
}

// NewTemplateService 장비 템플릿 서비스 생성
func NewTemplateService(templateRepo *repository.TemplateRepository, partRepo *repository.PartRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, partRepo: partRepo}
}

// TemplateLineInput 템플릿 라인 입력 (카탈로그 참조 + 수량)
type TemplateLineInput struct {
	MakerID  string `json:"maker_id" binding:"required"`
	PartID   string `json:"part_id" binding:"required"`
	Quantity int64  `json:"quantity"`
}

// CreateTemplate 템플릿 생성. order_index는 입력 순서대로 0..N-1, 단가와
// 표시 필드는 현재 카탈로그 상태에서 복사된다.
func (s *TemplateService) CreateTemplate(ctx context.Context, name, createdBy string, lineInputs []TemplateLineInput) (*entity.EquipmentTemplate, error) {
	now := time.Now()
	tpl := &entity.EquipmentTemplate{
		ID:        uuid.New().String()[:32],
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	lines := make([]entity.TemplateLine, 0, len(lineInputs))
	for i, in := range lineInputs {
		if in.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidLineData)
		}
		part, err := s.partRepo.FindByKey(ctx, in.MakerID, in.PartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: part %s/%s", ErrNotFound, in.MakerID, in.PartID)
			}
			return nil, err
		}
		lines = append(lines, entity.TemplateLine{
			TemplateID: tpl.ID,
			MakerID:    part.MakerID,
			PartID:     part.PartID,
			Major:      part.Major,
			Minor:      part.Minor,
			ModelName:  part.Name,
			MakerName:  part.MakerName,
			Unit:       part.Unit,
			Price:      part.Price,
			Quantity:   in.Quantity,
			OrderIndex: i,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	err := s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tpl).Error; err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("create template lines: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tpl.Lines = lines
	return tpl, nil
}

// GetTemplate 템플릿 조회
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*entity.EquipmentTemplate, error) {
	tpl, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
		}
		return nil, err
	}
	return tpl, nil
}

// ListTemplates 템플릿 목록
func (s *TemplateService) ListTemplates(ctx context.Context) ([]entity.EquipmentTemplate, error) {
	return s.templateRepo.List(ctx)
}

// DeleteTemplate 템플릿 삭제 (라인 연쇄 삭제)
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.GetTemplate(ctx, id); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, id)
}

// AddTemplateLine 라인 추가. order_index는 현재 라인 수를 그대로 받는다.
func (s *TemplateService) AddTemplateLine(ctx context.Context, templateID string, in *TemplateLineInput) (*entity.TemplateLine, error) {
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidLineData)
	}
	if _, err := s.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	part, err := s.partRepo.FindByKey(ctx, in.MakerID, in.PartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %s/%s", ErrNotFound, in.MakerID, in.PartID)
		}
		return nil, err
	}

	now := time.Now()
	line := &entity.TemplateLine{
		TemplateID: templateID,
		MakerID:    part.MakerID,
		PartID:     part.PartID,
		Major:      part.Major,
		Minor:      part.Minor,
		ModelName:  part.Name,
		MakerName:  part.MakerName,
		Unit:       part.Unit,
		Price:      part.Price,
		Quantity:   in.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewTemplateRepository(tx)
		count, err := txRepo.CountLines(ctx, templateID)
		if err != nil {
			return err
		}
		line.OrderIndex = int(count)
		return txRepo.CreateLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateTemplateLine 라인의 단가/수량 수정. 스냅샷 표시 필드는 건드리지 않는다.
func (s *TemplateService) UpdateTemplateLine(ctx context.Context, templateID, makerID, partID string, price, quantity int64) (*entity.TemplateLine, error) {
	if price < 0 || quantity < 0 {
		return nil, fmt.Errorf("%w: price/quantity must not be negative", ErrInvalidLineData)
	}
	line, err := s.templateRepo.FindLine(ctx, templateID, makerID, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: template line %s %s/%s", ErrNotFound, templateID, makerID, partID)
		}
		return nil, err
	}
	line.Price = price
	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	if err := s.templateRepo.UpdateLine(ctx, line); err != nil {
		return nil, fmt.Errorf("update template line: %w", err)
	}
	return line, nil
}

// RemoveTemplateLine 라인 삭제 후 남은 라인을 0..N-1로 다시 채운다.
func (s *TemplateService) RemoveTemplateLine(ctx context.Context, templateID, makerID, partID string) error {
	if _, err := s.templateRepo.FindLine(ctx, templateID, makerID, partID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: template line %s %s/%s", ErrNotFound, templateID, makerID, partID)
		}
		return err
	}

	return s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.TemplateLine{},
			"template_id = ? AND maker_id = ? AND part_id = ?", templateID, makerID, partID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
		}
		var rest []entity.TemplateLine
		if err := tx.Where("template_id = ?", templateID).
			Order("order_index ASC").Find(&rest).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
		}
		for i := range rest {
			if rest[i].OrderIndex == i {
				continue
			}
			if err := tx.Model(&entity.TemplateLine{}).
				Where("template_id = ? AND maker_id = ? AND part_id = ?",
					rest[i].TemplateID, rest[i].MakerID, rest[i].PartID).
				Update("order_index", i).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
			}
		}
		return nil
	})
}

// ReorderTemplate 라인 순서 재배치. permutation[i]는 현재 i번째 라인이 받을
// 새 order_index이며 0..N-1 전단사가 아니면 거부한다.
func (s *TemplateService) ReorderTemplate(ctx context.Context, templateID string, permutation []int) error {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if err := validatePermutation(permutation, len(tpl.Lines), 0); err != nil {
		return err
	}

	return s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		for i, line := range tpl.Lines {
			if err := tx.Model(&entity.TemplateLine{}).
				Where("template_id = ? AND maker_id = ? AND part_id = ?",
					line.TemplateID, line.MakerID, line.PartID).
				Update("order_index", permutation[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
			}
		}
		return nil
	})
}
