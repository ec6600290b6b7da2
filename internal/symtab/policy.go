package symtab

import (
	"fmt"
	"strings"
)

// Collision selects what happens when two distinct contents derive one label.
type Collision uint8

const (
	// CollisionSuffix gives the later content the first free LABEL_N (N ≥ 2).
	CollisionSuffix Collision = iota
	// CollisionOverwrite lets the later content replace the earlier one.
	CollisionOverwrite
	// CollisionError reports an error and keeps the earlier content.
	CollisionError
)

func (c Collision) String() string {
	switch c {
	case CollisionOverwrite:
		return "overwrite"
	case CollisionError:
		return "error"
	default:
		return "suffix"
	}
}

// ParseCollision converts a config or flag value to a Collision policy.
func ParseCollision(s string) (Collision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "suffix":
		return CollisionSuffix, nil
	case "overwrite":
		return CollisionOverwrite, nil
	case "error":
		return CollisionError, nil
	default:
		return CollisionSuffix, fmt.Errorf("invalid collision policy: %q (expected: overwrite|suffix|error)", s)
	}
}

// Order selects the iteration order of Table.Entries.
type Order uint8

const (
	OrderInsertion Order = iota
	OrderLabel
)

func (o Order) String() string {
	if o == OrderLabel {
		return "label"
	}
	return "insertion"
}

// ParseOrder converts a config or flag value to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "insertion":
		return OrderInsertion, nil
	case "label":
		return OrderLabel, nil
	default:
		return OrderInsertion, fmt.Errorf("invalid table order: %q (expected: insertion|label)", s)
	}
}
