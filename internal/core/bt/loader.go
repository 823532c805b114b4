package bt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/observability/log"
)

// TreeConfig is the behavior-tree document: a single root node spec plus
// an optional display name.
type TreeConfig struct {
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	Root *NodeSpec `json:"root" yaml:"root"`
}

// NodeSpec is one node of the document.
type NodeSpec struct {
	Type       string      `json:"type" yaml:"type"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Properties Properties  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Children   []*NodeSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// Properties carries the leaf bindings: a condition name for condition
// nodes, an action name plus hold duration for action nodes.
type Properties struct {
	Condition    string `json:"condition,omitempty" yaml:"condition,omitempty"`
	ActionID     string `json:"action_id,omitempty" yaml:"action_id,omitempty"`
	FramesNeeded *int   `json:"frames_needed,omitempty" yaml:"frames_needed,omitempty"`
}

func (tc *TreeConfig) Validate() error {
	if tc.Root == nil {
		return ErrNoRoot
	}
	return tc.Root.Validate()
}

func (ns *NodeSpec) Validate() error {
	if ns.Type == "" {
		return fmt.Errorf("node %q: type is required", ns.Name)
	}
	for i, child := range ns.Children {
		if child == nil {
			return fmt.Errorf("node %q: child %d is empty", ns.Name, i)
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Loader builds runnable trees out of documents, binding action names
// against a catalog and condition names against a provider.
type Loader struct {
	catalog  *action.Catalog
	provider *Provider
	log      log.Log
}

func NewLoader(catalog *action.Catalog, provider *Provider, logger log.Log) *Loader {
	if logger == nil {
		logger = log.Nop()
	}
	return &Loader{catalog: catalog, provider: provider, log: logger}
}

// Load decodes a YAML document from r and builds the tree.
func (l *Loader) Load(r io.Reader) (*Tree, error) {
	var cfg TreeConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse behavior tree: %w", err)
	}
	return l.Build(&cfg)
}

// LoadFile reads a document from disk, picking the decoder by extension.
func (l *Loader) LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read behavior tree: %w", err)
	}
	var cfg TreeConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse behavior tree %s: %w", path, err)
	}
	return l.Build(&cfg)
}

// Build turns a parsed document into a tree definition. Unregistered
// conditions fail the build; action names missing from the catalog bind to
// the neutral action with a warning, and the affected node names are
// recorded on the tree.
func (l *Loader) Build(cfg *TreeConfig) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var unresolved []string
	root, err := l.buildNode(cfg.Root, &unresolved)
	if err != nil {
		return nil, err
	}
	tree, err := NewTree(root)
	if err != nil {
		return nil, err
	}
	tree.unresolved = unresolved
	l.log.Debug("behavior tree built",
		log.String("name", cfg.Name),
		log.Int("nodes", tree.Size()),
	)
	return tree, nil
}

func (l *Loader) buildNode(spec *NodeSpec, unresolved *[]string) (*Node, error) {
	switch spec.Type {
	case "Selector", "selector", "Sequence", "sequence":
		children := make([]*Node, 0, len(spec.Children))
		for _, childSpec := range spec.Children {
			child, err := l.buildNode(childSpec, unresolved)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		kind := KindSelector
		if spec.Type == "Sequence" || spec.Type == "sequence" {
			kind = KindSequence
		}
		return &Node{kind: kind, name: spec.Name, children: children}, nil

	case "Condition", "condition":
		name := spec.Properties.Condition
		if name == "" {
			return nil, fmt.Errorf("condition node %q: missing condition property", spec.Name)
		}
		pred, ok := l.provider.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("condition node %q: %w: %s", spec.Name, ErrUnknownCondition, name)
		}
		return &Node{kind: KindCondition, name: spec.Name, condition: name, predicate: pred}, nil

	case "Action", "action":
		frames := 1
		if spec.Properties.FramesNeeded != nil {
			frames = *spec.Properties.FramesNeeded
		}
		if frames < 1 {
			return nil, fmt.Errorf("action node %q: %w: got %d", spec.Name, ErrBadFrames, frames)
		}
		id := l.neutralID()
		name := spec.Properties.ActionID
		if resolved, ok := l.catalog.ID(name); ok {
			id = resolved
		} else {
			*unresolved = append(*unresolved, spec.Name)
			l.log.Warn("action not in catalog, binding to neutral",
				log.String("node", spec.Name),
				log.String("action", name),
				log.Int("fallback", int(id)),
			)
		}
		return &Node{kind: KindAction, name: spec.Name, action: id, frames: frames}, nil

	default:
		return nil, fmt.Errorf("node %q: %w: %s", spec.Name, ErrUnknownNodeType, spec.Type)
	}
}

func (l *Loader) neutralID() action.ID {
	if id, ok := l.catalog.Neutral(); ok {
		return id
	}
	return 0
}
