package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:text;uniqueIndex;not null" json:"slug"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`

	Status    Status         `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slug.Make(c.Name)
	return nil
}
