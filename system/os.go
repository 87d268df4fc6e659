package system

import "github.com/turn/metrics-system/gauge"

// Capability names addressable through OSInfo's probe methods. Which of these
// resolve depends on the platform and how the OSInfo implementation was
// built; an unresolved name simply never registers a gauge.
const (
	CounterSystemCPULoad  = "cpu.system.load"
	CounterProcessCPULoad = "cpu.process.load"
	CounterProcessCPUTime = "cpu.process.time"

	CounterMemCommitted = "mem.committed"
	CounterMemFree      = "mem.free"
	CounterMemTotal     = "mem.total"

	CounterSwapFree  = "swap.free"
	CounterSwapTotal = "swap.total"

	CounterMaxFileDescriptors  = "fd.max"
	CounterOpenFileDescriptors = "fd.open"
)

// OSInfo supplies host-level resource counters. LoadAverage and
// ProcessorCount form the portable baseline; everything else is an optional,
// name-addressed counter reached through the probe methods, replacing
// vendor-specific extended interfaces that may not exist on every platform.
type OSInfo interface {
	// LoadAverage returns the one-minute system load average, or -1 where
	// the platform does not report one.
	LoadAverage() float64
	// ProcessorCount returns the number of logical processors available.
	ProcessorCount() int64
	// ProbeInt64 evaluates the named optional counter, returning dflt when
	// the counter is absent or the read fails.
	ProbeInt64(name string, dflt int64) int64
	// ProbeFloat64 is ProbeInt64 for float-valued counters.
	ProbeFloat64(name string, dflt float64) float64
}

// NewOperatingSystemSet returns CPU, memory, swap and file-descriptor gauges
// backed by info. load.average and cpu.num_available are always present. Each
// optional counter is probed once, here, with its type's sentinel as the
// default: a probe that comes back with the sentinel means the capability is
// absent and no gauge is registered for it. Probes that succeed register live
// gauges which re-read the counter on every evaluation, falling back to the
// same sentinel on later failures.
func NewOperatingSystemSet(info OSInfo) gauge.Map {
	gauges := gauge.Map{
		"load.average":      gauge.Float64Func(info.LoadAverage),
		"cpu.num_available": gauge.Int64Func(info.ProcessorCount),
	}

	addFloat64IfPresent(gauges, info, "cpu.usage", CounterSystemCPULoad)
	addFloat64IfPresent(gauges, info, "cpu.process.usage", CounterProcessCPULoad)

	addInt64IfPresent(gauges, info, "cpu.process.ns", CounterProcessCPUTime)

	addInt64IfPresent(gauges, info, "mem.committed", CounterMemCommitted)
	addInt64IfPresent(gauges, info, "mem.free", CounterMemFree)
	addInt64IfPresent(gauges, info, "mem.size", CounterMemTotal)

	addInt64IfPresent(gauges, info, "swap.free", CounterSwapFree)
	addInt64IfPresent(gauges, info, "swap.size", CounterSwapTotal)

	addInt64IfPresent(gauges, info, "file.descriptors.max", CounterMaxFileDescriptors)
	addInt64IfPresent(gauges, info, "file.descriptors.open", CounterOpenFileDescriptors)

	return gauges
}

func addInt64IfPresent(gauges gauge.Map, info OSInfo, metricName, counter string) {
	if info.ProbeInt64(counter, gauge.SentinelInt64) == gauge.SentinelInt64 {
		return
	}
	gauges[metricName] = gauge.Int64Func(func() int64 {
		return info.ProbeInt64(counter, gauge.SentinelInt64)
	})
}

func addFloat64IfPresent(gauges gauge.Map, info OSInfo, metricName, counter string) {
	if info.ProbeFloat64(counter, gauge.SentinelFloat64) == gauge.SentinelFloat64 {
		return
	}
	gauges[metricName] = gauge.Float64Func(func() float64 {
		return info.ProbeFloat64(counter, gauge.SentinelFloat64)
	})
}
