// Package gauge defines the contract between the system gauge sets and an
// external metrics collector: named, zero-argument numeric readings that are
// evaluated fresh on every call.
package gauge

// Sentinel values reported by a gauge whose underlying read failed. They are
// ordinary readings from the collector's point of view, distinguishable from a
// legitimate zero.
const (
	SentinelInt64   int64   = -1
	SentinelFloat64 float64 = -1
)

// Gauge is a point-in-time numeric reading. Implementations must be safe for
// concurrent use, must not cache, and must never panic; a failed read is
// reported as a sentinel value instead.
type Gauge interface {
	// Float evaluates the reading now, widened to float64 for export.
	Float() float64
}

// Int64Func adapts an integer-valued reading into a Gauge. The closure
// typically captures an immutable handle to its data source.
type Int64Func func() int64

// Int64 evaluates the reading at full integer precision.
func (f Int64Func) Int64() int64 { return f() }

func (f Int64Func) Float() float64 { return float64(f()) }

// Float64Func adapts a float-valued reading into a Gauge.
type Float64Func func() float64

func (f Float64Func) Float() float64 { return f() }

// Set is a collection of gauges keyed by name, fixed once constructed.
// Membership does not change for the lifetime of the set even when the
// underlying environment does; a vanished data source shows up as sentinel
// readings, not as a missing key.
type Set interface {
	Gauges() map[string]Gauge
}

// Map is a Set backed by a plain map. Names are unique within a Map; writing
// a duplicate name replaces the earlier gauge.
type Map map[string]Gauge

func (m Map) Gauges() map[string]Gauge { return m }

// Prefixed exposes s under prefix, joining names with a dot. Collectors use
// it to register sibling sets side by side without key collisions.
func Prefixed(prefix string, s Set) Set {
	if prefix == "" {
		return s
	}
	out := Map{}
	for name, g := range s.Gauges() {
		out[prefix+"."+name] = g
	}
	return out
}
