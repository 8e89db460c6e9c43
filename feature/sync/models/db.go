package models

import (
	"time"

	"gorm.io/datatypes"
)

// LinkRow pairs one local entity with one remote record.
type LinkRow struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Integration    string    `gorm:"size:64;not null;uniqueIndex:idx_link_remote,priority:1;uniqueIndex:idx_link_local,priority:1" json:"integration"`
	Kind           string    `gorm:"size:32;not null;uniqueIndex:idx_link_remote,priority:2;uniqueIndex:idx_link_local,priority:2" json:"kind"`
	LocalEntityID  uint      `gorm:"not null;uniqueIndex:idx_link_local,priority:3" json:"localEntityId"`
	RemoteRecordID string    `gorm:"size:64;not null;uniqueIndex:idx_link_remote,priority:3" json:"remoteRecordId"`
	CreatedAt      time.Time `json:"createdAt"`
	LastSyncAt     time.Time `json:"lastSyncAt"`
}

func (LinkRow) TableName() string {
	return "sync_links"
}

// ReferenceValue caches the label of a remote reference id for one field.
type ReferenceValue struct {
	ID            uint      `gorm:"primaryKey"`
	FieldID       string    `gorm:"size:128;not null;uniqueIndex:idx_reference_value,priority:1;index:idx_reference_label,priority:1"`
	RemoteValueID string    `gorm:"size:64;not null;uniqueIndex:idx_reference_value,priority:2"`
	DisplayLabel  string    `gorm:"size:255;not null;index:idx_reference_label,priority:2"`
	UpdatedAt     time.Time
}

func (ReferenceValue) TableName() string {
	return "sync_reference_values"
}

// Entity is a local contact or company.
type Entity struct {
	ID     uint              `gorm:"primaryKey" json:"id"`
	Kind   string            `gorm:"size:32;not null;index" json:"kind"`
	Fields datatypes.JSONMap `json:"fields"`
	// NaturalKey is the lower-cased email or company name.
	NaturalKey string `gorm:"size:255;index" json:"naturalKey"`
	// Pushable lists the fields changed locally since the last push.
	Pushable  datatypes.JSONSlice[string] `json:"pushable"`
	CompanyID *uint                       `gorm:"index" json:"companyId,omitempty"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"index" json:"updatedAt"`
}

func (Entity) TableName() string {
	return "sync_entities"
}

// Value returns a field value or nil.
func (e *Entity) Value(field string) any {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[field]
}
