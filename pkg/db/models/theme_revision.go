package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/webtheme-backend/pkg/enums"
)

// ThemeRevision records one successful save of a brand's web_theme.
type ThemeRevision struct {
	ID           uuid.UUID      `gorm:"primaryKey"`
	BrandID      string         `gorm:"not null;index:idx_theme_revisions_brand_created,priority:1"`
	UserID       string         `gorm:"not null"`
	Kind         enums.SaveKind `gorm:"not null"`
	Revision     string         `gorm:"not null"`
	BaseRevision string         `gorm:"not null"`
	IssueCount   int            `gorm:"not null;default:0"`
	ByteSize     int            `gorm:"not null;default:0"`
	Document     string         `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"not null;index:idx_theme_revisions_brand_created,priority:2,sort:desc"`
}

func (ThemeRevision) TableName() string {
	return "theme_revisions"
}
