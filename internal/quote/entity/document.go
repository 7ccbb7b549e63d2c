package entity

import "time"

// Document kinds. A header document is the summary quotation, a detailed
// document the itemized quotation, a price_compare document the cost-vs-quote
// comparison report.
const (
	DocKindHeader       = "header"
	DocKindDetailed     = "detailed"
	DocKindPriceCompare = "price_compare"
)

// Document is one quotation document. Lines are an unordered set; the
// presentation order is computed at read time, never stored.
type Document struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ParentID  string    `json:"parent_id" gorm:"size:32;index"`
	Kind      string    `json:"kind" gorm:"size:16;not null"`
	Title     string    `json:"title" gorm:"size:128"`
	CreatedBy string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lines     []DocumentLine     `json:"lines,omitempty" gorm:"foreignKey:DocumentID"`
	Templates []DocumentTemplate `json:"templates,omitempty" gorm:"foreignKey:DocumentID"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentLine is a frozen quotation line. Identity is the composite
// (document_id, major, minor, equipment) key; there is no surrogate line id.
// Price, quantity and the display text are copies taken at snapshot time —
// maker_id/part_id/template_id are kept for traceability only and are never
// joined back to live data.
type DocumentLine struct {
	DocumentID string `json:"document_id" gorm:"primaryKey;size:32"`
	Major      string `json:"major" gorm:"primaryKey;size:32"`
	Minor      string `json:"minor" gorm:"primaryKey;size:64"`
	Equipment  string `json:"equipment" gorm:"primaryKey;size:128"`

	MakerID    string `json:"maker_id,omitempty" gorm:"size:32"`
	PartID     string `json:"part_id,omitempty" gorm:"size:64"`
	TemplateID string `json:"template_id,omitempty" gorm:"size:32;index"`

	Unit      string `json:"unit" gorm:"size:16;not null;default:EA"`
	UnitPrice int64  `json:"unit_price" gorm:"not null;default:0"`
	Quantity  int64  `json:"quantity" gorm:"not null;default:0"`

	// Comparison documents carry a paired cost side; the uplift percentage is
	// stored verbatim and never recomputed by the aggregation engine.
	CostUnit      string  `json:"cost_unit,omitempty" gorm:"size:16"`
	CostUnitPrice int64   `json:"cost_unit_price" gorm:"not null;default:0"`
	CostQuantity  int64   `json:"cost_quantity" gorm:"not null;default:0"`
	UpliftPercent float64 `json:"uplift_percent" gorm:"type:numeric(6,2);default:0"`

	Remark    string    `json:"remark,omitempty" gorm:"size:256"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DocumentLine) TableName() string {
	return "document_lines"
}

// DocumentTemplate associates a document with the templates it was generated
// from. Kept even for manually overwritten documents so the origin stays
// traceable.
type DocumentTemplate struct {
	DocumentID string    `json:"document_id" gorm:"primaryKey;size:32"`
	TemplateID string    `json:"template_id" gorm:"primaryKey;size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DocumentTemplate) TableName() string {
	return "document_templates"
}
