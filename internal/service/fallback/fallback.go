// Package fallback serves the static dataset snapshot bundled with the binary, and the
// hardcoded record used when even the snapshot cannot be read.
package fallback

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/hopelouisville/dashboard/internal/domain"
)

//go:embed snapshot.json
var embedded []byte

type Snapshot struct {
	LastUpdated     string                   `json:"lastUpdated"`
	CurrentStats    domain.StatRecord        `json:"currentStats"`
	HistoricalData  []domain.HistoricalPoint `json:"historicalData"`
	BedAvailability domain.BedAvailability   `json:"bedAvailability"`
	Resources       []domain.Resource        `json:"resources"`
	ImpactMetrics   domain.ImpactMetrics     `json:"impactMetrics"`
}

var ErrEmptySnapshot = errors.New("snapshot has no current stats")

type Loader struct {
	name string
	read func() ([]byte, error)
}

// NewEmbedded reads the snapshot compiled into the binary.
func NewEmbedded() *Loader {
	return &Loader{
		name: "embedded",
		read: func() ([]byte, error) { return embedded, nil },
	}
}

// NewFile reads the snapshot from path on every Load.
func NewFile(path string) *Loader {
	return &Loader{
		name: path,
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// New picks the file loader when path is set and the embedded one otherwise.
func New(path string) *Loader {
	if path != "" {
		return NewFile(path)
	}
	return NewEmbedded()
}

func (l *Loader) Name() string {
	return l.name
}

func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := l.read()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", l.name, err)
	}

	var snap Snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", l.name, err)
	}
	if snap.CurrentStats.TotalHomeless == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", l.name, ErrEmptySnapshot)
	}

	return &snap, nil
}

// Hardcoded is the last-resort dataset.
func Hardcoded() Snapshot {
	return Snapshot{
		LastUpdated: "2023-01-26",
		CurrentStats: domain.StatRecord{
			TotalHomeless:   1100,
			Sheltered:       650,
			Unsheltered:     450,
			Families:        80,
			Veterans:        85,
			Youth:           60,
			ChronicHomeless: 300,
			Year:            2023,
		},
		HistoricalData: []domain.HistoricalPoint{
			{Year: 2021, Total: 1020, Sheltered: 700, Unsheltered: 320},
			{Year: 2022, Total: 1085, Sheltered: 660, Unsheltered: 425},
			{Year: 2023, Total: 1100, Sheltered: 650, Unsheltered: 450},
		},
		BedAvailability: domain.BedAvailability{
			Total:     1400,
			Available: 100,
			Occupied:  1300,
			Breakdown: domain.BedBreakdown{Emergency: 600, Transitional: 230, Permanent: 570},
		},
		Resources: []domain.Resource{
			{
				ID:          1,
				Name:        "Wayside Christian Mission",
				Type:        domain.ResourceShelter,
				Address:     "432 E Jefferson St, Louisville, KY 40202",
				Coordinates: domain.Coordinates{Lat: 38.2546, Lng: -85.7454},
				Phone:       "(502) 584-3711",
				Hours:       "24/7",
				Services:    []string{"emergency shelter", "meals"},
				IsOpen:      true,
			},
		},
	}
}
