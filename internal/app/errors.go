package app

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput indicates a malformed keywords, seed color, or color count value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuotaCheck indicates the daily limit could not be evaluated; the
	// request fails closed without generating anything.
	ErrQuotaCheck = errors.New("failed to handle daily limit")
	// ErrGenerationFailed indicates the text-generation provider call failed.
	ErrGenerationFailed = errors.New("failed to generate colors from provider")
	// ErrGenerationIncomplete indicates the provider responded with fewer
	// usable hex codes than requested.
	ErrGenerationIncomplete = errors.New("provider response contained too few colors")
	// ErrPersistenceFailed indicates the palette could not be saved; the
	// generated colors are discarded.
	ErrPersistenceFailed = errors.New("failed to save palette")
	// ErrNotFound indicates a lookup miss on update or delete paths.
	ErrNotFound = errors.New("not found")
)

// QuotaExceededError reports an exhausted daily generation quota and when it resets.
type QuotaExceededError struct {
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily generation limit reached, resets at %s", e.ResetTime.Format(time.RFC3339))
}
