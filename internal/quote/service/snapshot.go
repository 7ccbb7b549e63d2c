package service

import (
	"time"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
)

// linesFromTemplates synthesizes one DocumentLine per (template, line) pair.
// Every value is a straight field copy of the template line's snapshot state;
// nothing is re-read from the catalog. The template name becomes the line's
// equipment label and remark because several templates may reuse one part.
func linesFromTemplates(documentID string, tpls []entity.EquipmentTemplate) []entity.DocumentLine {
	now := time.Now()
	var out []entity.DocumentLine
	for _, tpl := range tpls {
		for _, tl := range tpl.Lines {
			out = append(out, entity.DocumentLine{
				DocumentID:    documentID,
				Major:         tl.Major,
				Minor:         tl.Minor,
				Equipment:     tpl.Name,
				MakerID:       tl.MakerID,
				PartID:        tl.PartID,
				TemplateID:    tpl.ID,
				Unit:          tl.Unit,
				UnitPrice:     tl.Price,
				Quantity:      tl.Quantity,
				CostUnit:      tl.Unit,
				CostUnitPrice: tl.Price,
				CostQuantity:  tl.Quantity,
				UpliftPercent: 0,
				Remark:        tpl.Name,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
	}
	return out
}

// linesFromInput freezes caller-supplied lines into the document verbatim,
// rebinding only the document id and timestamps.
func linesFromInput(documentID string, lines []entity.DocumentLine) []entity.DocumentLine {
	now := time.Now()
	out := make([]entity.DocumentLine, len(lines))
	for i, l := range lines {
		l.DocumentID = documentID
		l.CreatedAt = now
		l.UpdatedAt = now
		out[i] = l
	}
	return out
}
