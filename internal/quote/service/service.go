package service

import (
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/config"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 서비스 집합
type Services struct {
	Catalog  *CatalogService
	Template *TemplateService
	Document *DocumentService
	Export   *ExportService
}

// NewServices 서비스 집합 생성. Redis/MinIO는 설정이 없으면 비활성으로 둔다.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			minioClient = nil
		}
	}

	docSvc := NewDocumentService(repos.Document, repos.Template, rdb)
	return &Services{
		Catalog:  NewCatalogService(repos.Part, repos.Template),
		Template: NewTemplateService(repos.Template, repos.Part),
		Document: docSvc,
		Export:   NewExportService(docSvc, minioClient, cfg.MinIO.Bucket),
	}
}
