package config

import (
	"fmt"
	"strings"
	"time"
)

// SyncConfig holds the settings of the CRM reconciliation engine.
type SyncConfig struct {
	// Integration names the remote system in link rows and reports.
	Integration string `mapstructure:"integration" default:"NetSuite"`
	// Objects is a comma separated list of enabled object kinds.
	Objects string `mapstructure:"objects" default:"contact,company"`
	// RemoteOffset is the fixed UTC offset used on the wire (e.g. -07:00).
	RemoteOffset string `mapstructure:"remote_offset" default:"-07:00"`
	// LocalTimezone is the IANA zone local date values are rendered in.
	LocalTimezone string `mapstructure:"local_timezone" default:"UTC"`
	// SchemaTTLSeconds bounds how long discovered fields are kept. 0 caches indefinitely.
	SchemaTTLSeconds int `mapstructure:"schema_ttl_seconds" default:"0"`
	// BatchSize is the bulk write ceiling.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// WindowStart and WindowEnd bound the last-modified date of synced records.
	WindowStart string `mapstructure:"window_start" default:""`
	WindowEnd   string `mapstructure:"window_end" default:""`
	// MappingFile points to the YAML field mapping file.
	MappingFile string `mapstructure:"mapping_file" default:""`
	// ReportPrefix is the object storage prefix for run reports.
	ReportPrefix string `mapstructure:"report_prefix" default:"sync-reports"`
}

// windowLayouts are the accepted formats for window bounds.
var windowLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// EnabledObjects returns the normalized list of enabled object kinds.
func (c SyncConfig) EnabledObjects() []string {
	var out []string
	for _, part := range strings.Split(c.Objects, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsObjectEnabled reports whether kind is listed in Objects.
func (c SyncConfig) IsObjectEnabled(kind string) bool {
	for _, k := range c.EnabledObjects() {
		if k == strings.ToLower(kind) {
			return true
		}
	}
	return false
}

// Offset parses RemoteOffset into a fixed zone.
func (c SyncConfig) Offset() (*time.Location, error) {
	raw := strings.TrimSpace(c.RemoteOffset)
	if raw == "" || raw == "Z" {
		return time.UTC, nil
	}
	t, err := time.Parse("-07:00", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid remote offset %q: %w", c.RemoteOffset, err)
	}
	_, secs := t.Zone()
	return time.FixedZone(raw, secs), nil
}

// Location loads LocalTimezone.
func (c SyncConfig) Location() (*time.Location, error) {
	name := c.LocalTimezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid local timezone %q: %w", name, err)
	}
	return loc, nil
}

// SchemaTTL returns the schema cache lifetime.
func (c SyncConfig) SchemaTTL() time.Duration {
	if c.SchemaTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SchemaTTLSeconds) * time.Second
}

// Window parses the configured bounds. Unset bounds are returned as nil.
func (c SyncConfig) Window() (start, end *time.Time, err error) {
	if start, err = parseBound(c.WindowStart); err != nil {
		return nil, nil, err
	}
	if end, err = parseBound(c.WindowEnd); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// ParseWindowBound parses a single window bound in any accepted layout.
func ParseWindowBound(raw string) (*time.Time, error) {
	return parseBound(raw)
}

func parseBound(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range windowLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid window bound %q", raw)
}
