package assumption

import (
	"fmt"
	"os"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
)

// SectorMultiples maps a sector name to its typical Price/Sales multiple,
// used when the caller forces startup mode without pinning a multiple.
// Auto-selected startup mode always values at the fixed default.
type SectorMultiples struct {
	multiples map[string]float64
	fallback  float64
}

// LoadSectorMultiples parses a human-edited Hjson table of the form
//
//	{
//	  # comments and unquoted keys are fine
//	  Technology: 8.0
//	  "Consumer Cyclical": 2.5
//	}
func LoadSectorMultiples(path string, fallback float64) (*SectorMultiples, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sector table: %w", err)
	}

	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sector table: %w", err)
	}

	multiples := make(map[string]float64, len(raw))
	for sector, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("sector %q: multiple must be a number, got %T", sector, v)
		}
		if f <= 0 {
			return nil, fmt.Errorf("sector %q: multiple must be positive, got %f", sector, f)
		}
		multiples[strings.ToLower(sector)] = f
	}

	return &SectorMultiples{multiples: multiples, fallback: fallback}, nil
}

// DefaultSectorMultiples returns an empty table that always answers with the
// fallback. Used when no sector file is configured.
func DefaultSectorMultiples(fallback float64) *SectorMultiples {
	return &SectorMultiples{multiples: map[string]float64{}, fallback: fallback}
}

// Multiple returns the Price/Sales multiple for a sector, case-insensitive,
// falling back to the default when the sector is unknown or empty.
func (s *SectorMultiples) Multiple(sector string) float64 {
	if m, ok := s.multiples[strings.ToLower(strings.TrimSpace(sector))]; ok {
		return m
	}
	return s.fallback
}

// Count returns the number of sectors in the table.
func (s *SectorMultiples) Count() int {
	return len(s.multiples)
}
