// Package tariff loads versioned marketplace fee schedules from YAML files.
package tariff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/mktcalc/internal/pricing"
)

// Load returns the canonical schedule overlaid with the YAML file at path.
// An empty path returns the canonical schedule unchanged.
//
// Keys present in the file replace the canonical value: lists (tiers, bands,
// modes) are replaced wholesale, mappings are merged key by key and the
// entries under "flat" replace the whole marketplace section.
func Load(path string) (pricing.Schedule, error) {
	if path == "" {
		return pricing.DefaultSchedule(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return pricing.Schedule{}, fmt.Errorf("read fee table %s: %w", path, err)
	}

	s, err := Parse(b)
	if err != nil {
		return pricing.Schedule{}, fmt.Errorf("load fee table %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML schedule over the canonical one and validates the
// result. Unknown keys are rejected.
func Parse(b []byte) (pricing.Schedule, error) {
	s := pricing.DefaultSchedule()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return pricing.Schedule{}, fmt.Errorf("decode fee table: %w", err)
	}

	if err := Validate(s); err != nil {
		return pricing.Schedule{}, err
	}
	return s, nil
}
