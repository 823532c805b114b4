package action

import "errors"

var (
	// ErrEmptyRegistry is returned when the document declares no buttons.
	ErrEmptyRegistry = errors.New("no buttons registered")

	// ErrDuplicateButton is returned when the registry lists a label twice.
	ErrDuplicateButton = errors.New("duplicate button label")

	// ErrUnknownButton is returned when a combo references a label that is
	// not part of the registry.
	ErrUnknownButton = errors.New("unknown button")

	// ErrDuplicateName is returned when two combos with distinct press
	// vectors claim the same explicit name.
	ErrDuplicateName = errors.New("duplicate action name")
)
