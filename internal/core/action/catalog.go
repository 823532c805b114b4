package action

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/kumite/kumite/internal/core/observability/log"
)

// NeutralName is the display name given to the empty combination.
const NeutralName = "NEUTRAL"

// Definition is one resolved catalog entry.
type Definition struct {
	ID     ID
	Name   string
	Vector Vector
}

// Catalog is the immutable action space shared by every consumer of a
// fight: id, name and press vector for each combination. Build it once at
// startup and hand the same instance to the tree loader, the environment
// adapter and the input translator so they cannot drift apart.
type Catalog struct {
	buttons  []string
	bits     map[string]int
	names    []string
	vectors  []Vector
	byName   map[string]ID
	byVector map[string]ID
	dropped  []string
	fp       uint64
}

// Build resolves the document into a catalog. Combos referencing unknown
// buttons fail the build. Combos that normalize to a press vector already
// in the catalog are dropped with a warning and the first occurrence keeps
// the id, so ids stay dense over the distinct vectors in document order.
func Build(cfg *SpaceConfig, logger log.Log) (*Catalog, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		buttons:  append([]string(nil), cfg.Buttons...),
		bits:     make(map[string]int, len(cfg.Buttons)),
		byName:   make(map[string]ID, len(cfg.Actions)),
		byVector: make(map[string]ID, len(cfg.Actions)),
	}
	for i, label := range c.buttons {
		c.bits[label] = i
	}

	for i, combo := range cfg.Actions {
		vec := make(Vector, len(c.buttons))
		for _, label := range combo.Buttons {
			bit, ok := c.bits[label]
			if !ok {
				return nil, fmt.Errorf("action %d: %w %q", i, ErrUnknownButton, label)
			}
			vec[bit] = 1
		}

		name := combo.Name
		if name == "" {
			name = c.deriveName(vec)
		}

		if keptID, dup := c.byVector[vec.key()]; dup {
			c.dropped = append(c.dropped, name)
			logger.Warn("dropping action with duplicate press vector",
				log.String("name", name),
				log.String("kept", c.names[keptID]),
				log.Int("id", int(keptID)),
			)
			continue
		}
		if _, taken := c.byName[name]; taken {
			return nil, fmt.Errorf("action %d: %w %q", i, ErrDuplicateName, name)
		}

		id := ID(len(c.vectors))
		c.vectors = append(c.vectors, vec)
		c.names = append(c.names, name)
		c.byName[name] = id
		c.byVector[vec.key()] = id
	}

	c.fp = c.fingerprint()
	return c, nil
}

// deriveName joins the pressed button labels in registry order, so any
// ordering of the same button set yields the same name.
func (c *Catalog) deriveName(vec Vector) string {
	parts := make([]string, 0, 4)
	for bit, flag := range vec {
		if flag != 0 {
			parts = append(parts, c.buttons[bit])
		}
	}
	if len(parts) == 0 {
		return NeutralName
	}
	return strings.Join(parts, "_")
}

// Len is the number of distinct actions in the catalog.
func (c *Catalog) Len() int { return len(c.vectors) }

// Width is the press-vector width, i.e. the number of registered buttons.
func (c *Catalog) Width() int { return len(c.buttons) }

// Buttons returns the registry in wire order.
func (c *Catalog) Buttons() []string {
	return append([]string(nil), c.buttons...)
}

// ID resolves a display name to a catalog id.
func (c *Catalog) ID(name string) (ID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Name resolves a catalog id to its display name.
func (c *Catalog) Name(id ID) (string, bool) {
	if id < 0 || int(id) >= len(c.names) {
		return "", false
	}
	return c.names[id], true
}

// Vector returns a copy of the press vector for id.
func (c *Catalog) Vector(id ID) (Vector, bool) {
	if id < 0 || int(id) >= len(c.vectors) {
		return nil, false
	}
	return c.vectors[id].Clone(), true
}

// IDForVector resolves an exact press vector back to its catalog id.
func (c *Catalog) IDForVector(v Vector) (ID, bool) {
	if len(v) != len(c.buttons) {
		return 0, false
	}
	id, ok := c.byVector[v.key()]
	return id, ok
}

// Compose builds a press vector from button labels, without requiring the
// combination to be in the catalog. Unknown labels fail.
func (c *Catalog) Compose(buttons ...string) (Vector, error) {
	vec := make(Vector, len(c.buttons))
	for _, label := range buttons {
		bit, ok := c.bits[label]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownButton, label)
		}
		vec[bit] = 1
	}
	return vec, nil
}

// Neutral returns the id of the all-zero vector if the document listed the
// empty combination; the builder never inserts one on its own.
func (c *Catalog) Neutral() (ID, bool) {
	return c.IDForVector(make(Vector, len(c.buttons)))
}

// Dropped lists the names of combos discarded as duplicates, in document
// order.
func (c *Catalog) Dropped() []string {
	return append([]string(nil), c.dropped...)
}

// Entries returns the full catalog in id order.
func (c *Catalog) Entries() []Definition {
	out := make([]Definition, len(c.vectors))
	for i := range c.vectors {
		out[i] = Definition{ID: ID(i), Name: c.names[i], Vector: c.vectors[i].Clone()}
	}
	return out
}

// Fingerprint is a stable digest over the registry and the kept vectors.
// Two processes agree on action semantics iff their fingerprints match.
func (c *Catalog) Fingerprint() uint64 { return c.fp }

func (c *Catalog) fingerprint() uint64 {
	h := xxhash.New()
	for _, label := range c.buttons {
		_, _ = h.WriteString(label)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0xFF})
	for _, vec := range c.vectors {
		_, _ = h.Write(vec)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
