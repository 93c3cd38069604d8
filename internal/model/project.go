package model

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a project owned by a tenant. TenantID is nullable:
// rows created before tenant scoping existed carry no tenant id and are
// treated as legacy/orphan records by the enforcement gate.
type Project struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(200);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Status      string         `json:"status" gorm:"type:varchar(50);not null;default:'active'"` // 'active', 'archived', 'completed'
	TenantID    *uint          `json:"tenant_id,omitempty" gorm:"index"`
	OwnerID     uint           `json:"owner_id" gorm:"index;not null"`
	CreatedBy   uint           `json:"created_by"`
	UpdatedBy   uint           `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
