package system

import "github.com/turn/metrics-system/gauge"

// RuntimeInfo reports process lifetime counters. Unlike the other
// capabilities these are always available and have no failure path.
type RuntimeInfo interface {
	// StartTimeMillis is the process start time in epoch milliseconds.
	StartTimeMillis() int64
	// UptimeMillis is the elapsed time since process start in milliseconds.
	UptimeMillis() int64
}

// NewRuntimeSet returns the starttime_ms and uptime_ms gauges.
func NewRuntimeSet(info RuntimeInfo) gauge.Map {
	return gauge.Map{
		"starttime_ms": gauge.Int64Func(info.StartTimeMillis),
		"uptime_ms":    gauge.Int64Func(info.UptimeMillis),
	}
}
