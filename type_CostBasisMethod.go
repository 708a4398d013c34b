package satstack

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CostBasisMethod defines the method for selecting which lots a disposal consumes.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO CostBasisMethod = iota
	// LIFO (Last-In, First-Out) consumes the newest lots first.
	LIFO
	// HIFO (Highest-In, First-Out) consumes the lots with the highest cost per unit first.
	HIFO
)

// CostBasisMethods lists all the supported methods.
var CostBasisMethods = []CostBasisMethod{FIFO, LIFO, HIFO}

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HIFO:
		return "hifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "hifo":
		return HIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

func (m CostBasisMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *CostBasisMethod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseCostBasisMethod(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
