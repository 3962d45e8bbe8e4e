package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"paletteai/internal/quota"
	"paletteai/internal/store"
	"paletteai/pkg/ai"
	"paletteai/pkg/colorspace"
	"paletteai/pkg/domain"
)

const (
	defaultDailyLimit        = 150
	defaultMaxOutputTokens   = 100
	defaultGenerationTimeout = 30 * time.Second
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL       string
	Store             store.Store
	Generator         ai.TextGenerator
	DailyLimit        int
	MaxOutputTokens   int
	GenerationTimeout time.Duration
}

// App is the core application service wiring together storage, the quota
// gate, and color generation.
type App struct {
	store             store.Store
	generator         ai.TextGenerator
	gate              *quota.Gate
	maxOutputTokens   int
	generationTimeout time.Duration
}

// New constructs the application. The generator is an injected dependency
// with its own lifecycle; it may be nil when only random generation is used.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	dailyLimit := cfg.DailyLimit
	if dailyLimit <= 0 {
		dailyLimit = defaultDailyLimit
	}
	gate, err := quota.New(dataStore, dailyLimit)
	if err != nil {
		return nil, fmt.Errorf("init quota gate: %w", err)
	}

	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	genTimeout := cfg.GenerationTimeout
	if genTimeout <= 0 {
		genTimeout = defaultGenerationTimeout
	}

	return &App{
		store:             dataStore,
		generator:         cfg.Generator,
		gate:              gate,
		maxOutputTokens:   maxTokens,
		generationTimeout: genTimeout,
	}, nil
}

// QuotaGate exposes the daily limiter. Intended for tests.
func (a *App) QuotaGate() *quota.Gate {
	return a.gate
}

// GenerateRequest carries the palette generation inputs.
type GenerateRequest struct {
	UserID          string
	Keywords        string
	SeedColor       string
	NumColors       int
	PreviousHistory []string
}

// GeneratePalette runs the full pipeline: validate, consume quota, source
// colors (provider-backed when keywords or a seed color are present, random
// otherwise), derive shades, persist, and return the stored palette.
func (a *App) GeneratePalette(ctx context.Context, req GenerateRequest) (domain.Palette, error) {
	ownerID := strings.TrimSpace(req.UserID)
	if ownerID == "" {
		return domain.Palette{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	keywords, err := cleanKeywords(req.Keywords)
	if err != nil {
		return domain.Palette{}, err
	}
	if err := validateNumColors(req.NumColors); err != nil {
		return domain.Palette{}, err
	}
	seed := strings.TrimSpace(req.SeedColor)
	if seed != "" {
		if _, err := colorspace.HexToRGB(seed); err != nil {
			return domain.Palette{}, fmt.Errorf("%w: seed color must be a hex code", ErrInvalidInput)
		}
	}

	decision, err := a.gate.Consume(ownerID)
	if err != nil {
		return domain.Palette{}, fmt.Errorf("%w: %v", ErrQuotaCheck, err)
	}
	if !decision.Allowed {
		return domain.Palette{}, &QuotaExceededError{ResetTime: decision.ResetAt}
	}

	var colors []domain.Color
	if keywords == nil && seed == "" {
		colors = colorspace.Random(req.NumColors)
	} else {
		colors, err = a.generateFromPrompt(ctx, keywords, seed, req.NumColors)
		if err != nil {
			return domain.Palette{}, err
		}
	}

	historyEntry := describeGeneration(keywords, seed)
	palette := domain.Palette{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Colors:    colors,
		Shades:    colorspace.ShadeGrid(colors),
		History:   append(append([]string{}, req.PreviousHistory...), historyEntry),
		// Postgres stores timestamps with microsecond precision; truncate up
		// front so the stored value matches the one handed back to clients and
		// later used to address the palette.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := a.store.SavePalette(palette); err != nil {
		return domain.Palette{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return palette, nil
}

// ListPalettes returns all palettes owned by the user, oldest first.
func (a *App) ListPalettes(userID string) ([]domain.Palette, error) {
	palettes, err := a.store.ListPalettesByOwner(strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	return palettes, nil
}

// DeletePalettes removes all of the user's palettes and returns the count.
// Deleting for a user with no palettes is ErrNotFound.
func (a *App) DeletePalettes(userID string) (int64, error) {
	deleted, err := a.store.DeletePalettesByOwner(strings.TrimSpace(userID))
	if err != nil {
		return 0, fmt.Errorf("delete palettes: %w", err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return deleted, nil
}

// RenamePalette sets the display name of the palette identified by owner and
// creation timestamp.
func (a *App) RenamePalette(userID string, createdAt time.Time, name string) error {
	found, err := a.store.RenamePalette(strings.TrimSpace(userID), createdAt, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("rename palette: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (a *App) generateFromPrompt(ctx context.Context, keywords []string, seed string, numColors int) ([]domain.Color, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("%w: no text-generation provider configured", ErrGenerationFailed)
	}
	ctx, cancel := context.WithTimeout(ctx, a.generationTimeout)
	defer cancel()

	response, err := a.generator.GenerateText(ctx, buildPrompt(keywords, seed, numColors), a.maxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	colors, ok := colorspace.ExtractHex(response, numColors)
	if !ok {
		return nil, fmt.Errorf("%w: wanted %d, found %d", ErrGenerationIncomplete, numColors, len(colors))
	}
	return colors, nil
}

// cleanKeywords normalizes free-text keyword input. An absent (empty) value
// means "no keywords" and returns nil; a present value is split on commas with
// each segment trimmed, preserving order. Any all-whitespace segment is
// invalid, including a value that is nothing but whitespace.
func cleanKeywords(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	segments := strings.Split(raw, ",")
	keywords := make([]string, 0, len(segments))
	for _, segment := range segments {
		keyword := strings.TrimSpace(segment)
		if keyword == "" {
			return nil, fmt.Errorf("%w: keywords cannot contain only whitespace", ErrInvalidInput)
		}
		keywords = append(keywords, keyword)
	}
	return keywords, nil
}

// validateNumColors accepts any positive count and rejects zero, negative,
// and missing values identically.
func validateNumColors(numColors int) error {
	if numColors <= 0 {
		return fmt.Errorf("%w: invalid number of colors", ErrInvalidInput)
	}
	return nil
}

func buildPrompt(keywords []string, seed string, numColors int) string {
	var theme string
	if len(keywords) > 0 {
		theme = "Keywords: " + strings.Join(keywords, ", ") + "."
	} else {
		theme = "Base the palette on the seed color " + seed + "."
	}
	return fmt.Sprintf(
		"Generate a harmonious color palette with %d colors. %s "+
			"Use principles of color theory to ensure the palette is cohesive "+
			"(e.g., complementary, analogous, triadic, or monochromatic schemes). "+
			"Provide the colors in hex format along with descriptive names. "+
			"The colors should be visually appealing and suitable for use in a web design project.",
		numColors, theme)
}

func describeGeneration(keywords []string, seed string) string {
	switch {
	case len(keywords) > 0:
		return "Generated palette with keywords: " + strings.Join(keywords, ", ") + "."
	case seed != "":
		return "Generated palette from seed color " + strings.ToLower(seed) + "."
	default:
		return "Generated palette with no keywords."
	}
}
