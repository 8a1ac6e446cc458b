package hours

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRegistry []byte

type registryFile struct {
	CallCenters []types.CallCenterConfig `yaml:"callCenters"`
}

// Load reads a YAML registry file. An empty path loads the bundled table.
func Load(path string, loc *time.Location) (*Registry, error) {
	data := defaultRegistry
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read hours config: %w", err)
		}
		data = b
	}
	return Parse(data, loc)
}

// Parse builds a registry from YAML bytes
func Parse(data []byte, loc *time.Location) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse hours config: %w", err)
	}
	return New(file.CallCenters, loc)
}

// ParseOffset turns "+HH:MM" / "-HH:MM" (or "Z") into a fixed-offset location.
// Wall-clock hours are deliberately evaluated without DST rules.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || s == "UTC" {
		return time.UTC, nil
	}
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return nil, fmt.Errorf("invalid offset %q, expected +HH:MM", s)
	}
	h, err := strconv.Atoi(s[1:3])
	if err != nil || h > 14 {
		return nil, fmt.Errorf("invalid offset hours in %q", s)
	}
	m, err := strconv.Atoi(s[4:6])
	if err != nil || m > 59 {
		return nil, fmt.Errorf("invalid offset minutes in %q", s)
	}
	secs := h*3600 + m*60
	if s[0] == '-' {
		secs = -secs
	}
	return time.FixedZone("UTC"+s, secs), nil
}
