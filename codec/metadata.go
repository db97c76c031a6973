package codec

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Spec names one codec of a chain and carries its raw configuration.
type Spec struct {
	Name          string            `json:"name"`
	Configuration gojson.RawMessage `json:"configuration,omitempty"`
}

// UnmarshalJSON accepts both {"name": ..., "configuration": {...}} and a
// bare codec name.
func (s *Spec) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := gojson.Unmarshal(b, &name); err != nil {
			return err
		}
		*s = Spec{Name: name}
		return nil
	}
	var raw struct {
		Name          string            `json:"name"`
		Configuration gojson.RawMessage `json:"configuration"`
	}
	if err := gojson.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Spec{Name: raw.Name, Configuration: raw.Configuration}
	return nil
}

// ParseMetadata parses a chain description. It accepts a JSON array of
// codec specs, an array metadata object with a "codecs" member, or a
// single codec object.
func ParseMetadata(metadata []byte) ([]Spec, error) {
	b := bytes.TrimSpace(metadata)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidMetadata)
	}

	var specs []Spec
	switch b[0] {
	case '[':
		if err := gojson.Unmarshal(b, &specs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
		}
	case '{':
		var doc struct {
			Codecs []Spec  `json:"codecs"`
			Name   *string `json:"name"`
		}
		if err := gojson.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
		}
		switch {
		case doc.Codecs != nil:
			specs = doc.Codecs
		case doc.Name != nil:
			var one Spec
			if err := gojson.Unmarshal(b, &one); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
			}
			specs = []Spec{one}
		default:
			return nil, fmt.Errorf("%w: object has neither \"codecs\" nor \"name\"", ErrInvalidMetadata)
		}
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrInvalidMetadata)
	}

	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: codec %d has no name", ErrInvalidMetadata, i)
		}
	}
	return specs, nil
}

// decodeConfig unmarshals an optional codec configuration into v.
func decodeConfig(config []byte, v any) error {
	config = bytes.TrimSpace(config)
	if len(config) == 0 || bytes.Equal(config, []byte("null")) {
		return nil
	}
	if err := gojson.Unmarshal(config, v); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	return nil
}
