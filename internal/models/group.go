package models

import "time"

// DeliveryType enumerates how a group's lessons are delivered.
type DeliveryType string

const (
	DeliveryOnSite DeliveryType = "ON_SITE"
	DeliveryOnline DeliveryType = "ONLINE"
	DeliveryHybrid DeliveryType = "HYBRID"
)

// Group is owned by exactly one level.
type Group struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Capacity     int          `db:"capacity" json:"capacity"`
	DeliveryType DeliveryType `db:"delivery_type" json:"type"`
	LevelID      int64        `db:"level_id" json:"levelId"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// GroupWithLevel resolves the full level → session chain, as needed for
// enrollment code derivation and list responses.
type GroupWithLevel struct {
	Group
	Level LevelWithSession `json:"level"`
}
