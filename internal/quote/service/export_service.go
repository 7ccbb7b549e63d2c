package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"공종", "품명", "장비", "단위", "수량", "단가", "금액", "비고",
}

var compareExportHeaders = []string{
	"공종", "품명", "장비", "단위",
	"원가 수량", "원가 단가", "원가 금액",
	"견적 수량", "견적 단가", "견적 금액",
	"차액", "할증(%)", "비고",
}

// ExportService 그룹핑 결과를 xlsx로 렌더링하고, 설정되어 있으면 MinIO에
// 보관한다. 그룹핑 구조만 소비할 뿐 문서 데이터를 직접 읽지 않는다.
type ExportService struct {
	docSvc      *DocumentService
	minioClient *minio.Client
	bucket      string
}

// NewExportService 내보내기 서비스 생성. minioClient는 nil이어도 동작한다.
func NewExportService(docSvc *DocumentService, minioClient *minio.Client, bucket string) *ExportService {
	return &ExportService{docSvc: docSvc, minioClient: minioClient, bucket: bucket}
}

// ExportDocument 문서를 xlsx로 렌더링한다.
func (s *ExportService) ExportDocument(ctx context.Context, documentID string) (*excelize.File, string, error) {
	grouped, err := s.docSvc.GetGrouped(ctx, documentID)
	if err != nil {
		return nil, "", err
	}

	isCompare := grouped.Kind == entity.DocKindPriceCompare
	headers := exportHeaders
	if isCompare {
		headers = compareExportHeaders
	}

	f := excelize.NewFile()
	sheet := "견적"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	subtotalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	row := 2
	for _, bucket := range grouped.Buckets {
		for _, group := range bucket.Groups {
			for _, line := range group.Lines {
				if isCompare {
					f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.Major)
					f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.Minor)
					f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Equipment)
					f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.Unit)
					f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.CostQuantity)
					f.SetCellValue(sheet, fmt.Sprintf("F%d", row), line.CostUnitPrice)
					f.SetCellValue(sheet, fmt.Sprintf("G%d", row), line.CostAmount)
					f.SetCellValue(sheet, fmt.Sprintf("H%d", row), line.Quantity)
					f.SetCellValue(sheet, fmt.Sprintf("I%d", row), line.UnitPrice)
					f.SetCellValue(sheet, fmt.Sprintf("J%d", row), line.Amount)
					f.SetCellValue(sheet, fmt.Sprintf("K%d", row), line.Amount-line.CostAmount)
					f.SetCellValue(sheet, fmt.Sprintf("L%d", row), line.UpliftPercent)
					f.SetCellValue(sheet, fmt.Sprintf("M%d", row), line.Remark)
				} else {
					f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.Major)
					f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.Minor)
					f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Equipment)
					f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.Unit)
					f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.Quantity)
					f.SetCellValue(sheet, fmt.Sprintf("F%d", row), line.UnitPrice)
					f.SetCellValue(sheet, fmt.Sprintf("G%d", row), line.Amount)
					f.SetCellValue(sheet, fmt.Sprintf("H%d", row), line.Remark)
				}
				row++
			}
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s 소계", group.Equipment))
			if isCompare {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", row), group.CostSubtotal)
				f.SetCellValue(sheet, fmt.Sprintf("J%d", row), group.Subtotal)
				f.SetCellValue(sheet, fmt.Sprintf("K%d", row), group.Subtotal-group.CostSubtotal)
			} else {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", row), group.Subtotal)
			}
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), subtotalStyle)
			row++
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s 계", bucket.Major))
		if isCompare {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), bucket.CostSubtotal)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), bucket.Subtotal)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), bucket.Delta)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), bucket.Subtotal)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), subtotalStyle)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "총계")
	if isCompare {
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), grouped.CostTotal)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), grouped.GrandTotal)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), grouped.Delta)
	} else {
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), grouped.GrandTotal)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), subtotalStyle)

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet, col, col, 14)
	}

	filename := fmt.Sprintf("quotation_%s.xlsx", documentID)
	return f, filename, nil
}

// StoreExport xlsx를 MinIO에 업로드한다. 클라이언트가 없으면 건너뛴다.
func (s *ExportService) StoreExport(ctx context.Context, f *excelize.File, filename string) (string, error) {
	if s.minioClient == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("write xlsx: %w", err)
	}
	objectName := "exports/" + filename
	_, err := s.minioClient.PutObject(ctx, s.bucket, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return objectName, nil
}
