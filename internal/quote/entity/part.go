package entity

import "time"

// Part is a master catalog part. Identity is the (maker_id, part_id) pair;
// display_order is globally unique and contiguous across the whole catalog.
type Part struct {
	MakerID      string    `json:"maker_id" gorm:"primaryKey;size:32"`
	PartID       string    `json:"part_id" gorm:"primaryKey;size:64"`
	Major        string    `json:"major" gorm:"size:32;not null"`
	Minor        string    `json:"minor" gorm:"size:64;not null"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	MakerName    string    `json:"maker_name" gorm:"size:64"`
	Unit         string    `json:"unit" gorm:"size:16;not null;default:EA"`
	Price        int64     `json:"price" gorm:"not null;default:0"`
	DisplayOrder int       `json:"display_order" gorm:"not null;uniqueIndex"`
	CertCE       bool      `json:"cert_ce" gorm:"default:false"`
	CertKC       bool      `json:"cert_kc" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Part) TableName() string {
	return "parts"
}
