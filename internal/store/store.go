package store

import (
	"time"

	"paletteai/pkg/domain"
)

// Store defines persistence operations for palettes and usage counters.
type Store interface {
	// palettes
	SavePalette(domain.Palette) error
	ListPalettesByOwner(ownerID string) ([]domain.Palette, error)
	DeletePalettesByOwner(ownerID string) (int64, error)
	RenamePalette(ownerID string, createdAt time.Time, name string) (bool, error)

	// usage counters
	GetUsageCounter(ownerID string) (domain.UsageCounter, bool, error)
	SaveUsageCounter(domain.UsageCounter) error
}
