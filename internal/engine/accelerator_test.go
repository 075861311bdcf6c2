package engine

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseAccelerator(t *testing.T) {
	tests := []struct {
		in   string
		want Accelerator
		err  bool
	}{
		{in: "", want: AcceleratorKDTree},
		{in: "kdtree", want: AcceleratorKDTree},
		{in: "KD", want: AcceleratorKDTree},
		{in: " Linear ", want: AcceleratorLinear},
		{in: "octree", err: true},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			a, err := ParseAccelerator(test.in)
			if test.err {
				require.Error(t, err)
				require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, a)
		})
	}
}

func TestSetAccelerator(t *testing.T) {
	t.Cleanup(func() {
		SetAccelerator(AcceleratorKDTree)
	})

	SetAccelerator(AcceleratorLinear)
	require.Equal(t, AcceleratorLinear, GetAccelerator())
	require.Equal(t, "linear", GetAccelerator().String())

	SetAccelerator(Accelerator(42))
	require.Equal(t, AcceleratorKDTree, GetAccelerator())
	require.Equal(t, "kdtree", GetAccelerator().String())
}
