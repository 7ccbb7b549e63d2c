package entity

import "time"

// EquipmentTemplate is a reusable equipment BOM. It exclusively owns its
// lines; deleting a template cascades to them.
type EquipmentTemplate struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lines []TemplateLine `json:"lines,omitempty" gorm:"foreignKey:TemplateID"`
}

func (EquipmentTemplate) TableName() string {
	return "equipment_templates"
}

// TemplateLine is one catalog reference inside a template. Price, unit and
// the display fields are copied from the Part at insertion time and are never
// refreshed from the catalog afterwards; price and quantity stay editable on
// the line itself. order_index values within one template are exactly 0..N-1.
type TemplateLine struct {
	TemplateID string    `json:"template_id" gorm:"primaryKey;size:32"`
	MakerID    string    `json:"maker_id" gorm:"primaryKey;size:32"`
	PartID     string    `json:"part_id" gorm:"primaryKey;size:64"`
	Major      string    `json:"major" gorm:"size:32;not null"`
	Minor      string    `json:"minor" gorm:"size:64;not null"`
	ModelName  string    `json:"model_name" gorm:"size:128"`
	MakerName  string    `json:"maker_name" gorm:"size:64"`
	Unit       string    `json:"unit" gorm:"size:16;not null;default:EA"`
	Price      int64     `json:"price" gorm:"not null;default:0"`
	Quantity   int64     `json:"quantity" gorm:"not null;default:1"`
	OrderIndex int       `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TemplateLine) TableName() string {
	return "template_lines"
}
