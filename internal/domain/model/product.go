package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Product struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string `gorm:"type:text;not null" json:"name"`
	Price      int64  `gorm:"not null" json:"price"` // 最小通貨単位（floatは使わない）
	Slug       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`

	// 画像はFKを持たない。imageのentity_id/entity_typeで紐づく
	Images []Image `gorm:"foreignKey:EntityID;references:ID" json:"images,omitempty"`

	Status    Status         `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// nameからslugを毎回作り直す（insert/update共通）
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = slug.Make(p.Name)
	return nil
}
