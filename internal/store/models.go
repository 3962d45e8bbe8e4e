package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Colors, shades, and history are stored
// as JSON documents rather than relational rows.
type PaletteModel struct {
	ID        string `gorm:"primaryKey"`
	OwnerID   string `gorm:"not null;index"`
	Name      string
	Colors    datatypes.JSON `gorm:"not null"`
	Shades    datatypes.JSON `gorm:"not null"`
	History   datatypes.JSON
	CreatedAt time.Time `gorm:"not null;index"`
}

type UsageCounterModel struct {
	OwnerID     string    `gorm:"primaryKey"`
	Count       int       `gorm:"not null;default:0"`
	LastResetAt time.Time `gorm:"not null"`
}
