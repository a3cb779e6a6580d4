// Package seed loads an initial list of centers from a YAML or JSON file.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vaxslots/internal/common/fsutil"
	"vaxslots/pkg/types"
)

// File is the on-disk seed format.
type File struct {
	Centers []Center `json:"centers" yaml:"centers"`
}

// Center is one seeded center. A nil Slots means "use the default"; an
// explicit 0 seeds a fully booked center.
type Center struct {
	Name          string `json:"name" yaml:"name"`
	Location      string `json:"location" yaml:"location"`
	DosageDetails string `json:"dosageDetails" yaml:"dosageDetails"`
	Timings       string `json:"timings" yaml:"timings"`
	Slots         *int   `json:"availableSlots" yaml:"availableSlots"`
}

// Target is the store surface seeding writes to.
type Target interface {
	SeedCenters(ctx context.Context, cs []types.Center) (int, error)
}

// LoadFile reads a seed file. Supports .yaml/.yml and .json.
func LoadFile(path string) ([]Center, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var f File
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	case ".json":
		err = json.Unmarshal(b, &f)
	default:
		return nil, fmt.Errorf("unsupported seed extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, c := range f.Centers {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("seed center %d: name is required", i)
		}
		if c.Slots != nil && *c.Slots < 0 {
			return nil, fmt.Errorf("seed center %d: availableSlots must not be negative", i)
		}
	}
	return f.Centers, nil
}

// Apply inserts centers only when the store holds none, so restarts never
// duplicate or reset live slot counters. The batch is all or nothing: a
// failure leaves the store empty and a later run can seed again. Returns how
// many were inserted.
func Apply(ctx context.Context, t Target, centers []Center, defaultSlots int) (int, error) {
	rows := make([]types.Center, 0, len(centers))
	for _, c := range centers {
		slots := defaultSlots
		if c.Slots != nil {
			slots = *c.Slots
		}
		rows = append(rows, types.Center{
			Name:           c.Name,
			Location:       c.Location,
			DosageDetails:  c.DosageDetails,
			Timings:        c.Timings,
			AvailableSlots: slots,
		})
	}
	return t.SeedCenters(ctx, rows)
}
