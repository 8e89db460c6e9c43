package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// KindMapping maps local field names to remote field ids for one object kind.
type KindMapping struct {
	// Fields maps local field name -> remote field id.
	Fields map[string]string `mapstructure:"fields"`
	// RemoteWins lists remote field ids whose remote value overrides local data on pull.
	RemoteWins []string `mapstructure:"remote_wins"`
}

// Mapping is the per-kind field mapping table.
type Mapping map[string]KindMapping

// LoadMapping reads a YAML mapping file.
//
// Keys are lower-cased by viper, so local field names should be snake_case.
// Remote field ids are values and keep their case.
//
//	contact:
//	  fields:
//	    email: email
//	    first_name: firstName
//	  remote_wins: [firstName]
func LoadMapping(path string) (Mapping, error) {
	if path == "" {
		return Mapping{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	var m Mapping
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("failed to decode mapping file %s: %w", path, err)
	}
	return m, nil
}

// For returns the mapping of a kind and whether one was configured.
func (m Mapping) For(kind string) (KindMapping, bool) {
	km, ok := m[kind]
	return km, ok && len(km.Fields) > 0
}
