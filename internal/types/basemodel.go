package types

import (
	"context"
	"time"
)

// Status represents the lifecycle status of a stored record
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Metadata is a string key-value bag attached to records and gateway calls
type Metadata map[string]string

// BaseModel is a base model for all domain models that need to be persisted
type BaseModel struct {
	TenantID  string    `json:"tenant_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		TenantID:  GetTenantID(ctx),
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: GetUserID(ctx),
		UpdatedBy: GetUserID(ctx),
	}
}
