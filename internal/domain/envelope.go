package domain

import (
	"time"

	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

// SourceResult is the envelope every adapter and aggregator call returns.
type SourceResult[T any] struct {
	Success      bool      `json:"success"`
	Data         T         `json:"data"`
	Error        string    `json:"error,omitempty"`
	Source       string    `json:"source"`
	Timestamp    time.Time `json:"timestamp"`
	IsFallback   bool      `json:"isFallback,omitempty"`
	FallbackTier string    `json:"fallbackTier,omitempty"`
}

func OK[T any](source string, data T) SourceResult[T] {
	return SourceResult[T]{
		Success:   true,
		Data:      data,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

func Failed[T any](source string, err error) SourceResult[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return SourceResult[T]{
		Error:     msg,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

func Fallback[T any](tier string, data T) SourceResult[T] {
	source := constants.SourceFallback
	if tier == constants.FallbackTierHardcoded {
		source = constants.SourceHardcoded
	}
	return SourceResult[T]{
		Success:      true,
		Data:         data,
		Source:       source,
		Timestamp:    time.Now().UTC(),
		IsFallback:   true,
		FallbackTier: tier,
	}
}

// Bundle is the combined result of refreshing every dataset.
type Bundle struct {
	CurrentStats SourceResult[StatRecord]        `json:"currentStats"`
	Historical   SourceResult[[]HistoricalPoint] `json:"historicalData"`
	Beds         SourceResult[BedAvailability]   `json:"bedAvailability"`
	Resources    SourceResult[[]Resource]        `json:"resources"`
	Timestamp    time.Time                       `json:"timestamp"`
}

// Stale reports whether any dataset in the bundle came from a fallback tier.
func (b Bundle) Stale() bool {
	return b.CurrentStats.IsFallback || b.Historical.IsFallback || b.Beds.IsFallback || b.Resources.IsFallback
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
