// Package action maintains the shared action space of a fight: the ordered
// button registry and the catalog of button combinations every consumer
// (tree loader, environment adapter, input translator) resolves against.
package action

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is the position of a combination inside the catalog. Ids are dense,
// start at zero and never change for the lifetime of a catalog.
type ID int

// Vector is a fixed-width press vector: one 0/1 flag per registered button,
// in registry order.
type Vector []uint8

func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether no button is pressed.
func (v Vector) IsZero() bool {
	for _, b := range v {
		if b != 0 {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		if b == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// key packs the vector into a map key.
func (v Vector) key() string {
	return string(v)
}

// ComboSpec is one entry of the action-space document: an optional display
// name plus the buttons held together. In YAML and JSON it may be written
// either as a bare button list or as a mapping with name and buttons.
type ComboSpec struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Buttons []string `json:"buttons" yaml:"buttons"`
}

func (c *ComboSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var buttons []string
		if err := value.Decode(&buttons); err != nil {
			return err
		}
		c.Name, c.Buttons = "", buttons
		return nil
	case yaml.MappingNode:
		type plain ComboSpec
		var raw plain
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*c = ComboSpec(raw)
		return nil
	default:
		return fmt.Errorf("line %d: action entry must be a button list or a mapping", value.Line)
	}
}

func (c *ComboSpec) UnmarshalJSON(data []byte) error {
	var buttons []string
	if err := json.Unmarshal(data, &buttons); err == nil {
		c.Name, c.Buttons = "", buttons
		return nil
	}
	type plain ComboSpec
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ComboSpec(raw)
	return nil
}

// SpaceConfig is the action-space document: the button registry in wire
// order and the combo list the catalog is built from.
type SpaceConfig struct {
	Buttons []string    `json:"buttons" yaml:"buttons"`
	Actions []ComboSpec `json:"actions" yaml:"actions"`
}

func (c *SpaceConfig) Validate() error {
	if len(c.Buttons) == 0 {
		return fmt.Errorf("action space: %w", ErrEmptyRegistry)
	}
	seen := make(map[string]struct{}, len(c.Buttons))
	for i, label := range c.Buttons {
		if label == "" {
			return fmt.Errorf("action space: button %d has an empty label", i)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("action space: %w: %q", ErrDuplicateButton, label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

// Load reads an action-space document from r. YAML and JSON both parse.
func Load(r io.Reader) (*SpaceConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read action space: %w", err)
	}
	var cfg SpaceConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse action space: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads an action-space document from disk, picking the decoder
// by file extension.
func LoadFile(path string) (*SpaceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read action space: %w", err)
	}
	var cfg SpaceConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse action space %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
