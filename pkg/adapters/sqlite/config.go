package sqlite

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultBusyTimeout is the busy timeout in milliseconds when none is set.
const DefaultBusyTimeout = 500

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Create the database file if it does not exist.
	Create bool `mapstructure:"create"`

	// ReadOnly opens the database read-only. Takes precedence over Create.
	ReadOnly bool `mapstructure:"read_only"`

	// BusyTimeout in milliseconds before a locked database fails the query.
	BusyTimeout int `mapstructure:"busy_timeout"`
}

// ParseParams decodes raw adapter params. String values such as "true" are
// accepted so params can come from environment variables.
func ParseParams(raw map[string]any) (Params, error) {
	p := Params{BusyTimeout: DefaultBusyTimeout}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid sqlite params: %w", err)
	}
	if p.BusyTimeout <= 0 {
		p.BusyTimeout = DefaultBusyTimeout
	}
	return p, nil
}
