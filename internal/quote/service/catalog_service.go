package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"gorm.io/gorm"
)

// CatalogService 품목 마스터 서비스
type CatalogService struct {
	partRepo     *repository.PartRepository
	templateRepo *repository.TemplateRepository
}

// NewCatalogService 품목 마스터 서비스 생성
func NewCatalogService(partRepo *repository.PartRepository, templateRepo *repository.TemplateRepository) *CatalogService {
	return &CatalogService{partRepo: partRepo, templateRepo: templateRepo}
}

// CreatePartInput 품목 등록 입력
type CreatePartInput struct {
	MakerID      string `json:"maker_id" binding:"required"`
	PartID       string `json:"part_id" binding:"required"`
	Major        string `json:"major" binding:"required"`
	Minor        string `json:"minor" binding:"required"`
	Name         string `json:"name" binding:"required"`
	MakerName    string `json:"maker_name"`
	Unit         string `json:"unit"`
	Price        int64  `json:"price"`
	DisplayOrder *int   `json:"display_order"`
	CertCE       bool   `json:"cert_ce"`
	CertKC       bool   `json:"cert_kc"`
}

// CreatePart 품목 등록. display_order를 생략하면 max+1을 부여한다.
func (s *CatalogService) CreatePart(ctx context.Context, in *CreatePartInput) (*entity.Part, error) {
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidLineData)
	}

	unit := in.Unit
	if unit == "" {
		unit = "EA"
	}

	part := &entity.Part{
		MakerID:   in.MakerID,
		PartID:    in.PartID,
		Major:     in.Major,
		Minor:     in.Minor,
		Name:      in.Name,
		MakerName: in.MakerName,
		Unit:      unit,
		Price:     in.Price,
		CertCE:    in.CertCE,
		CertKC:    in.CertKC,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// max+1 부여와 삽입을 한 트랜잭션으로 묶어 연속성을 지킨다.
	err := s.partRepo.DB().Transaction(func(tx *gorm.DB) error {
		txPart := repository.NewPartRepository(tx)
		if in.DisplayOrder != nil {
			taken, err := txPart.ExistsDisplayOrder(ctx, *in.DisplayOrder)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: display_order %d already taken", ErrOrderConflict, *in.DisplayOrder)
			}
			part.DisplayOrder = *in.DisplayOrder
		} else {
			maxOrder, err := txPart.MaxDisplayOrder(ctx)
			if err != nil {
				return err
			}
			part.DisplayOrder = maxOrder + 1
		}
		return txPart.Create(ctx, part)
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}

// GetPart 품목 조회
func (s *CatalogService) GetPart(ctx context.Context, makerID, partID string) (*entity.Part, error) {
	part, err := s.partRepo.FindByKey(ctx, makerID, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %s/%s", ErrNotFound, makerID, partID)
		}
		return nil, err
	}
	return part, nil
}

// ListParts 품목 목록 (display_order 순)
func (s *CatalogService) ListParts(ctx context.Context, major, minor string) ([]entity.Part, error) {
	return s.partRepo.List(ctx, major, minor)
}

// UpdatePartPrice 품목 단가 변경. 이미 찍힌 스냅샷에는 영향이 없다.
func (s *CatalogService) UpdatePartPrice(ctx context.Context, makerID, partID string, price int64) (*entity.Part, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidLineData)
	}
	if _, err := s.GetPart(ctx, makerID, partID); err != nil {
		return nil, err
	}
	if err := s.partRepo.UpdatePrice(ctx, makerID, partID, price); err != nil {
		return nil, fmt.Errorf("update price: %w", err)
	}
	return s.GetPart(ctx, makerID, partID)
}

// DeletePart 품목 삭제. 템플릿 라인이 참조 중이면 거부.
func (s *CatalogService) DeletePart(ctx context.Context, makerID, partID string) error {
	if _, err := s.GetPart(ctx, makerID, partID); err != nil {
		return err
	}
	refs, err := s.templateRepo.CountLinesForPart(ctx, makerID, partID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d template line(s) reference %s/%s", ErrPartReferenced, refs, makerID, partID)
	}
	return s.partRepo.Delete(ctx, makerID, partID)
}

// ReorderParts 카탈로그 전체 표시 순서 재배치. permutation[i]는 현재 i번째
// (display_order 오름차순) 품목이 받을 새 display_order (1..N 전단사).
func (s *CatalogService) ReorderParts(ctx context.Context, permutation []int) error {
	parts, err := s.partRepo.List(ctx, "", "")
	if err != nil {
		return err
	}
	if err := validatePermutation(permutation, len(parts), 1); err != nil {
		return err
	}

	return s.partRepo.DB().Transaction(func(tx *gorm.DB) error {
		// Two passes so the unique index never sees a transient collision.
		for i := range parts {
			if err := tx.Model(&entity.Part{}).
				Where("maker_id = ? AND part_id = ?", parts[i].MakerID, parts[i].PartID).
				Update("display_order", -(i + 1)).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
			}
		}
		for i := range parts {
			if err := tx.Model(&entity.Part{}).
				Where("maker_id = ? AND part_id = ?", parts[i].MakerID, parts[i].PartID).
				Update("display_order", permutation[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
			}
		}
		return nil
	})
}
