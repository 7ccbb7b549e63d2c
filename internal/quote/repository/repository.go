package repository

import "gorm.io/gorm"

// Repositories 저장소 집합
type Repositories struct {
	Part     *PartRepository
	Template *TemplateRepository
	Document *DocumentRepository
}

// NewRepositories 저장소 집합 생성
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Part:     NewPartRepository(db),
		Template: NewTemplateRepository(db),
		Document: NewDocumentRepository(db),
	}
}
