package engine

import (
	"strings"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Accelerator selects the structure answering ray queries against the
// scene.
type Accelerator int32

const (
	// AcceleratorKDTree indexes the scene with a KD-tree.
	AcceleratorKDTree Accelerator = iota
	// AcceleratorLinear tests every object for every ray. It is only
	// useful to compare against the tree.
	AcceleratorLinear
)

func (a Accelerator) String() string {
	switch a {
	case AcceleratorLinear:
		return "linear"
	default:
		return "kdtree"
	}
}

// ParseAccelerator returns the accelerator named s.
func ParseAccelerator(s string) (Accelerator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kdtree", "kd":
		return AcceleratorKDTree, nil
	case "linear":
		return AcceleratorLinear, nil
	default:
		return AcceleratorKDTree, errors.New("unknown accelerator").
			WithType(ErrTypeInvalidConfig).
			WithTag("accelerator", s)
	}
}

var currentAccelerator atomic.Int32

// SetAccelerator selects the accelerator used by worlds built afterwards.
// If an unknown value is passed, the KD-tree is used.
func SetAccelerator(a Accelerator) {
	switch a {
	case AcceleratorKDTree, AcceleratorLinear:
		currentAccelerator.Store(int32(a))
	default:
		currentAccelerator.Store(int32(AcceleratorKDTree))
	}
}

// GetAccelerator returns the currently selected accelerator.
func GetAccelerator() Accelerator {
	return Accelerator(currentAccelerator.Load())
}
