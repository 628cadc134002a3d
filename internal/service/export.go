package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/backend/config"
	"github.com/nutricoach/backend/internal/models"
)

// ProfileExport is the backup document uploaded to S3.
type ProfileExport struct {
	ExportedAt time.Time              `json:"exported_at"`
	Profile    *models.UserProfile    `json:"profile"`
	Recipes    []models.Recipe        `json:"recipes"`
	Ratings    []models.RecipeRating  `json:"ratings"`
	Progress   []models.ProgressEntry `json:"progress"`
}

// ExportResult points at the uploaded backup.
type ExportResult struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

const exportURLExpiration = 24 * time.Hour

// ExportService writes a full JSON backup of a user's data to S3.
type ExportService struct {
	db *gorm.DB
	s3 *config.S3Config
}

func NewExportService(db *gorm.DB, s3Config *config.S3Config) *ExportService {
	return &ExportService{db: db, s3: s3Config}
}

func (s *ExportService) ExportProfile(ctx context.Context, userID uuid.UUID) (*ExportResult, error) {
	export := &ProfileExport{ExportedAt: time.Now().UTC()}

	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	export.Profile = &profile

	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&export.Recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&export.Ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&export.Progress).Error; err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("backups/%s/%s.json", userID, export.ExportedAt.Format("20060102-150405"))
	_, err = s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}
	log.Printf("[ExportService] Uploaded profile backup %s (%d bytes)", key, len(body))

	url, err := s.s3.GeneratePresignedURL(ctx, key, exportURLExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export URL: %w", err)
	}

	return &ExportResult{
		Key:         key,
		DownloadURL: url,
		ExpiresAt:   time.Now().Add(exportURLExpiration),
	}, nil
}
