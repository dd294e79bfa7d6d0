package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 画像の持ち主の種類（PRODUCTS / CATEGORIES）
type EntityType string

const (
	EntityTypeProducts   EntityType = "PRODUCTS"
	EntityTypeCategories EntityType = "CATEGORIES"
)

func (t EntityType) Valid() bool {
	return t == EntityTypeProducts || t == EntityTypeCategories
}

type ImageStatus string

const (
	ImageStatusTemporary ImageStatus = "TEMPORARY"
	ImageStatusActive    ImageStatus = "ACTIVE"
)

type Image struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	PublicID string `gorm:"type:text;not null" json:"public_id"`

	// NULL = アップロード済みだがまだどこにも紐づいていない
	EntityID   *string    `gorm:"type:uuid;index" json:"entity_id,omitempty"`
	EntityType EntityType `gorm:"type:varchar(20);not null" json:"entity_type"`

	URLOriginal  string `gorm:"type:text;not null" json:"url_original"`
	URLOptimized string `gorm:"type:text;not null" json:"url_optimized"`
	URLMedium    string `gorm:"type:text;not null" json:"url_medium"`

	Status    ImageStatus    `gorm:"type:varchar(20);not null;default:'TEMPORARY'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// 持ち主をタグ付きで表す。entity_type+entity_idの組をそのまま扱わせない
type ImageOwnerKind int

const (
	OwnerUnattached ImageOwnerKind = iota
	OwnerProduct
	OwnerCategory
)

type ImageOwner struct {
	Kind ImageOwnerKind
	ID   string
}

func (i *Image) Owner() ImageOwner {
	if i.EntityID == nil {
		return ImageOwner{Kind: OwnerUnattached}
	}
	switch i.EntityType {
	case EntityTypeProducts:
		return ImageOwner{Kind: OwnerProduct, ID: *i.EntityID}
	case EntityTypeCategories:
		return ImageOwner{Kind: OwnerCategory, ID: *i.EntityID}
	}
	return ImageOwner{Kind: OwnerUnattached}
}
