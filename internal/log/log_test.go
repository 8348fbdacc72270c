package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	for _, debug := range []bool{false, true} {
		require.NoError(t, Init(debug))
		assert.NotNil(t, GetZapLogger())
		assert.Equal(t, debug, GetZapLogger().Core().Enabled(-1))
	}
}

func TestWith(t *testing.T) {
	require.NoError(t, Init(false))

	child := With("run_id", "abc")
	require.NotNil(t, child)
	assert.NotSame(t, GetSugaredLogger(), child)
}
