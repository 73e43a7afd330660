package embed

import (
	"testing"

	"github.com/katalvlaran/lvlembed/params"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Workers(t *testing.T) {
	require.Zero(t, DefaultOptions().Workers, "CPU count is looked up lazily")

	c, err := resolveConfig(MultidimensionalScaling, 10, 0, 0, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.workers, 1)

	c, err = resolveConfig(MultidimensionalScaling, 10, 0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 3, c.workers)

	c, err = resolveConfig(MultidimensionalScaling, 10, 0, 3, params.Map{params.Workers: 2})
	require.NoError(t, err)
	require.Equal(t, 2, c.workers)
}
