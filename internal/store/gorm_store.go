package store

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"paletteai/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&PaletteModel{}, &UsageCounterModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SavePalette inserts a new palette. Palette IDs are unique; a duplicate
// insert is an error rather than an upsert.
func (s *GormStore) SavePalette(p domain.Palette) error {
	model, err := paletteToModel(p)
	if err != nil {
		return err
	}
	return s.db.Create(&model).Error
}

// ListPalettesByOwner returns the owner's palettes, oldest first.
func (s *GormStore) ListPalettesByOwner(ownerID string) ([]domain.Palette, error) {
	var models []PaletteModel
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Palette, 0, len(models))
	for _, m := range models {
		p, err := paletteFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

// DeletePalettesByOwner removes all palettes for the owner and reports how many.
func (s *GormStore) DeletePalettesByOwner(ownerID string) (int64, error) {
	tx := s.db.Where("owner_id = ?", ownerID).Delete(&PaletteModel{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// RenamePalette updates the display name of the palette identified by owner
// and creation timestamp. Returns false when no such palette exists.
func (s *GormStore) RenamePalette(ownerID string, createdAt time.Time, name string) (bool, error) {
	tx := s.db.Model(&PaletteModel{}).
		Where("owner_id = ? AND created_at = ?", ownerID, createdAt).
		Update("name", name)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// GetUsageCounter loads the owner's daily usage counter.
func (s *GormStore) GetUsageCounter(ownerID string) (domain.UsageCounter, bool, error) {
	var model UsageCounterModel
	if err := s.db.First(&model, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.UsageCounter{}, false, nil
		}
		return domain.UsageCounter{}, false, err
	}
	return domain.UsageCounter{
		OwnerID:     model.OwnerID,
		Count:       model.Count,
		LastResetAt: model.LastResetAt,
	}, true, nil
}

// SaveUsageCounter upserts the owner's daily usage counter.
func (s *GormStore) SaveUsageCounter(c domain.UsageCounter) error {
	model := UsageCounterModel{
		OwnerID:     c.OwnerID,
		Count:       c.Count,
		LastResetAt: c.LastResetAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"count", "last_reset_at"}),
	}).Create(&model).Error
}

func paletteToModel(p domain.Palette) (PaletteModel, error) {
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return PaletteModel{}, fmt.Errorf("marshal colors: %w", err)
	}
	shades, err := json.Marshal(p.Shades)
	if err != nil {
		return PaletteModel{}, fmt.Errorf("marshal shades: %w", err)
	}
	history, err := json.Marshal(p.History)
	if err != nil {
		return PaletteModel{}, fmt.Errorf("marshal history: %w", err)
	}
	return PaletteModel{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Colors:    colors,
		Shades:    shades,
		History:   history,
		CreatedAt: p.CreatedAt,
	}, nil
}

func paletteFromModel(m PaletteModel) (domain.Palette, error) {
	p := domain.Palette{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	if err := json.Unmarshal(m.Colors, &p.Colors); err != nil {
		return domain.Palette{}, fmt.Errorf("unmarshal colors: %w", err)
	}
	if err := json.Unmarshal(m.Shades, &p.Shades); err != nil {
		return domain.Palette{}, fmt.Errorf("unmarshal shades: %w", err)
	}
	if len(m.History) > 0 {
		if err := json.Unmarshal(m.History, &p.History); err != nil {
			return domain.Palette{}, fmt.Errorf("unmarshal history: %w", err)
		}
	}
	return p, nil
}
