package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncAdapters(t *testing.T) {
	ig := Int64Func(func() int64 { return 42 })
	assert.Equal(t, int64(42), ig.Int64())
	assert.Equal(t, 42.0, ig.Float())

	fg := Float64Func(func() float64 { return 1.5 })
	assert.Equal(t, 1.5, fg.Float())
}

func TestMapLastWriteWins(t *testing.T) {
	m := Map{}
	m["load.average"] = Float64Func(func() float64 { return 1 })
	m["load.average"] = Float64Func(func() float64 { return 2 })

	require.Len(t, m.Gauges(), 1)
	assert.Equal(t, 2.0, m["load.average"].Float())
}

func TestPrefixed(t *testing.T) {
	m := Map{
		"uptime_ms":    Int64Func(func() int64 { return 10 }),
		"starttime_ms": Int64Func(func() int64 { return 20 }),
	}

	prefixed := Prefixed("runtime", m).Gauges()
	require.Len(t, prefixed, 2)
	require.Contains(t, prefixed, "runtime.uptime_ms")
	require.Contains(t, prefixed, "runtime.starttime_ms")
	assert.Equal(t, 10.0, prefixed["runtime.uptime_ms"].Float())

	unprefixed := Prefixed("", m).Gauges()
	require.Len(t, unprefixed, 2)
	assert.Contains(t, unprefixed, "uptime_ms")
}
