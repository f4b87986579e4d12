package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ModelDescriptor is the persisted metadata row describing one registered model.
type ModelDescriptor struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Model     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Info      string    `gorm:"type:text"`
	Transient bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ModelDescriptor) TableName() string {
	return "ir_model"
}

// ModelAccess grants read permission on a model. An empty GroupName applies to every authenticated user.
type ModelAccess struct {
	ID        uint      `gorm:"primaryKey"`
	Model     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_ir_model_access_model_group"`
	GroupName string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_ir_model_access_model_group"`
	PermRead  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ModelAccess) TableName() string {
	return "ir_model_access"
}

// RecordRule restricts a caller to rows whose OwnerColumn equals the caller's principal ID.
type RecordRule struct {
	ID          uint      `gorm:"primaryKey"`
	Model       string    `gorm:"type:varchar(255);not null;index"`
	GroupName   string    `gorm:"type:varchar(255);not null;default:''"`
	OwnerColumn string    `gorm:"type:varchar(255);not null"`
	Active      bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (RecordRule) TableName() string {
	return "ir_rule"
}

// WindowAction is the persisted navigation directive for a model.
type WindowAction struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"type:varchar(255);not null"`
	ResModel  string         `gorm:"type:varchar(255);not null;index"`
	ViewMode  string         `gorm:"type:varchar(255);not null"`
	Type      string         `gorm:"type:varchar(64);not null"`
	Target    string         `gorm:"type:varchar(32);not null"`
	Context   datatypes.JSON
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (WindowAction) TableName() string {
	return "ir_actions_act_window"
}
