package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turn/metrics-system/gauge"
)

// fakeOSInfo resolves probes against explicit counter tables; names outside
// the tables are absent. Counters can be marked broken after construction to
// simulate reads that start failing once a gauge is live.
type fakeOSInfo struct {
	loadAvg float64
	procs   int64

	intCounters   map[string]int64
	floatCounters map[string]float64
	broken        map[string]bool
}

func (f *fakeOSInfo) LoadAverage() float64  { return f.loadAvg }
func (f *fakeOSInfo) ProcessorCount() int64 { return f.procs }

func (f *fakeOSInfo) ProbeInt64(name string, dflt int64) int64 {
	if f.broken[name] {
		return dflt
	}
	v, ok := f.intCounters[name]
	if !ok {
		return dflt
	}
	return v
}

func (f *fakeOSInfo) ProbeFloat64(name string, dflt float64) float64 {
	if f.broken[name] {
		return dflt
	}
	v, ok := f.floatCounters[name]
	if !ok {
		return dflt
	}
	return v
}

func TestOperatingSystemSetBaseline(t *testing.T) {
	set := NewOperatingSystemSet(&fakeOSInfo{loadAvg: 1.25, procs: 8})

	require.Len(t, set, 2)
	assert.Equal(t, 1.25, set["load.average"].Float())
	assert.Equal(t, 8.0, set["cpu.num_available"].Float())
}

func TestOperatingSystemSetAbsentCountersProduceNoGauges(t *testing.T) {
	info := &fakeOSInfo{
		intCounters: map[string]int64{CounterMemTotal: 16 << 30},
	}
	set := NewOperatingSystemSet(info)

	require.Contains(t, set, "mem.size")
	// Absent capabilities are absent keys, never present-with-sentinel.
	assert.NotContains(t, set, "mem.free")
	assert.NotContains(t, set, "mem.committed")
	assert.NotContains(t, set, "swap.free")
	assert.NotContains(t, set, "swap.size")
	assert.NotContains(t, set, "cpu.usage")
	assert.NotContains(t, set, "cpu.process.usage")
	assert.NotContains(t, set, "cpu.process.ns")
	assert.NotContains(t, set, "file.descriptors.max")
	assert.NotContains(t, set, "file.descriptors.open")
}

func TestOperatingSystemSetCounterToGaugeNames(t *testing.T) {
	info := &fakeOSInfo{
		intCounters: map[string]int64{
			CounterProcessCPUTime:      12345,
			CounterMemCommitted:        1,
			CounterMemFree:             2,
			CounterMemTotal:            3,
			CounterSwapFree:            4,
			CounterSwapTotal:           5,
			CounterMaxFileDescriptors:  1024,
			CounterOpenFileDescriptors: 17,
		},
		floatCounters: map[string]float64{
			CounterSystemCPULoad:  0.5,
			CounterProcessCPULoad: 0.25,
		},
	}
	set := NewOperatingSystemSet(info)

	want := []string{
		"load.average", "cpu.num_available",
		"cpu.usage", "cpu.process.usage", "cpu.process.ns",
		"mem.committed", "mem.free", "mem.size",
		"swap.free", "swap.size",
		"file.descriptors.max", "file.descriptors.open",
	}
	require.Len(t, set, len(want))
	for _, name := range want {
		assert.Contains(t, set, name)
	}
	assert.Equal(t, 0.5, set["cpu.usage"].Float())
	assert.Equal(t, int64(1024), set["file.descriptors.max"].(gauge.Int64Func).Int64())
}

func TestOperatingSystemSetReadsFreshValues(t *testing.T) {
	info := &fakeOSInfo{
		intCounters: map[string]int64{CounterMemFree: 100},
	}
	set := NewOperatingSystemSet(info)

	info.intCounters[CounterMemFree] = 50
	assert.Equal(t, 50.0, set["mem.free"].Float())
}

func TestOperatingSystemSetSentinelOnLaterFailure(t *testing.T) {
	info := &fakeOSInfo{
		intCounters:   map[string]int64{CounterSwapFree: 512},
		floatCounters: map[string]float64{CounterSystemCPULoad: 0.4},
		broken:        map[string]bool{},
	}
	set := NewOperatingSystemSet(info)
	require.Contains(t, set, "swap.free")
	require.Contains(t, set, "cpu.usage")

	info.broken[CounterSwapFree] = true
	info.broken[CounterSystemCPULoad] = true

	assert.Equal(t, gauge.SentinelInt64, set["swap.free"].(gauge.Int64Func).Int64())
	assert.Equal(t, gauge.SentinelFloat64, set["cpu.usage"].Float())
}

// Earlier implementations probed the process CPU time counter under a name
// that carried call parentheses, unlike every sibling probe. Such a name must
// not resolve against the clean counter names; the counter is only reachable
// as CounterProcessCPUTime.
func TestParenthesisedCounterNameNeverResolves(t *testing.T) {
	info := &fakeOSInfo{
		intCounters: map[string]int64{CounterProcessCPUTime: 999},
	}

	assert.Equal(t, int64(999), info.ProbeInt64(CounterProcessCPUTime, gauge.SentinelInt64))
	assert.Equal(t, gauge.SentinelInt64, info.ProbeInt64(CounterProcessCPUTime+"()", gauge.SentinelInt64))

	set := NewOperatingSystemSet(info)
	assert.Contains(t, set, "cpu.process.ns")
}
