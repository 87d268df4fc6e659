// Package system builds gauge sets for the operating environment: per-mount
// filesystem capacity, OS resource counters and process uptime. Each set is
// constructed against small capability interfaces so tests can substitute
// fake providers; the Host* constructors return the real, gopsutil-backed
// ones.
package system

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostMounts returns a MountLister over the physical partitions gopsutil
// reports for this host.
func HostMounts() MountLister {
	return hostMountLister{}
}

type hostMountLister struct{}

func (hostMountLister) MountPoints() ([]MountPoint, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}
	mounts := make([]MountPoint, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, hostMountPoint{device: p.Device, path: p.Mountpoint})
	}
	return mounts, nil
}

// hostMountPoint re-reads statfs-level usage on every counter call so a gauge
// evaluated long after construction still reflects the current state.
type hostMountPoint struct {
	device string
	path   string
}

func (m hostMountPoint) Name() string { return m.device }

func (m hostMountPoint) Describe() string { return m.path + " (" + m.device + ")" }

func (m hostMountPoint) TotalBytes() (uint64, error) {
	du, err := disk.Usage(m.path)
	if err != nil {
		return 0, err
	}
	return du.Total, nil
}

func (m hostMountPoint) UnallocatedBytes() (uint64, error) {
	du, err := disk.Usage(m.path)
	if err != nil {
		return 0, err
	}
	// Used excludes reserved blocks, so total minus used is the raw free
	// block count rather than the space available to the caller.
	return du.Total - du.Used, nil
}

func (m hostMountPoint) UsableBytes() (uint64, error) {
	du, err := disk.Usage(m.path)
	if err != nil {
		return 0, err
	}
	return du.Free, nil
}

// HostOSInfo returns an OSInfo backed by gopsutil host and process readings.
// Counters the platform does not support fail their construction-time probe
// and therefore never register a gauge.
func HostOSInfo() OSInfo {
	info := &hostOSInfo{}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		info.proc = p
	}
	return info
}

type hostOSInfo struct {
	// proc is nil when the self-process lookup failed; per-process counters
	// then probe as absent.
	proc *process.Process
}

func (h *hostOSInfo) LoadAverage() float64 {
	avg, err := load.Avg()
	if err != nil {
		return -1
	}
	return avg.Load1
}

func (h *hostOSInfo) ProcessorCount() int64 {
	n, err := cpu.Counts(true)
	if err != nil {
		return int64(runtime.NumCPU())
	}
	return int64(n)
}

func (h *hostOSInfo) ProbeFloat64(name string, dflt float64) float64 {
	switch name {
	case CounterSystemCPULoad:
		pcts, err := cpu.Percent(0, false)
		if err != nil || len(pcts) == 0 {
			return dflt
		}
		return pcts[0] / 100
	case CounterProcessCPULoad:
		if h.proc == nil {
			return dflt
		}
		pct, err := h.proc.CPUPercent()
		if err != nil {
			return dflt
		}
		return pct / 100
	}
	return dflt
}

func (h *hostOSInfo) ProbeInt64(name string, dflt int64) int64 {
	switch name {
	case CounterProcessCPUTime:
		if h.proc == nil {
			return dflt
		}
		times, err := h.proc.Times()
		if err != nil {
			return dflt
		}
		return int64((times.User + times.System) * float64(time.Second))
	case CounterMemCommitted:
		if h.proc == nil {
			return dflt
		}
		mi, err := h.proc.MemoryInfo()
		if err != nil || mi == nil {
			return dflt
		}
		return int64(mi.VMS)
	case CounterMemFree:
		vm, err := mem.VirtualMemory()
		if err != nil {
			return dflt
		}
		return int64(vm.Free)
	case CounterMemTotal:
		vm, err := mem.VirtualMemory()
		if err != nil {
			return dflt
		}
		return int64(vm.Total)
	case CounterSwapFree:
		sm, err := mem.SwapMemory()
		if err != nil {
			return dflt
		}
		return int64(sm.Free)
	case CounterSwapTotal:
		sm, err := mem.SwapMemory()
		if err != nil {
			return dflt
		}
		return int64(sm.Total)
	case CounterMaxFileDescriptors:
		if h.proc == nil {
			return dflt
		}
		limits, err := h.proc.Rlimit()
		if err != nil {
			return dflt
		}
		for _, l := range limits {
			if l.Resource == process.RLIMIT_NOFILE {
				return int64(l.Soft)
			}
		}
		return dflt
	case CounterOpenFileDescriptors:
		if h.proc == nil {
			return dflt
		}
		n, err := h.proc.NumFDs()
		if err != nil {
			return dflt
		}
		return int64(n)
	}
	return dflt
}

// HostRuntimeInfo returns a RuntimeInfo anchored at the OS-reported process
// creation time, falling back to the moment of this call if that read fails.
func HostRuntimeInfo() RuntimeInfo {
	start := time.Now()
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if ms, err := p.CreateTime(); err == nil {
			start = time.UnixMilli(ms)
		}
	}
	return hostRuntimeInfo{start: start}
}

type hostRuntimeInfo struct {
	start time.Time
}

func (h hostRuntimeInfo) StartTimeMillis() int64 { return h.start.UnixMilli() }

func (h hostRuntimeInfo) UptimeMillis() int64 { return time.Since(h.start).Milliseconds() }
