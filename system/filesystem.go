package system

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/turn/metrics-system/gauge"
)

// MountPoint is one platform-visible filesystem volume. Every counter is read
// fresh per call and each can fail independently, e.g. when a network
// filesystem goes away after enumeration.
type MountPoint interface {
	// Name is the platform identifier for the volume, typically the backing
	// device.
	Name() string
	// Describe returns a human-readable description. On Unix-like platforms
	// this looks like "/mnt/data (/dev/sdb1)".
	Describe() string
	// TotalBytes is the total capacity of the volume.
	TotalBytes() (uint64, error)
	// UnallocatedBytes is the raw free block count in bytes, ignoring quotas
	// and reserved blocks.
	UnallocatedBytes() (uint64, error)
	// UsableBytes is the space actually available to the calling process,
	// after quotas and reserved blocks.
	UsableBytes() (uint64, error)
}

// MountLister enumerates the mount points visible to the process.
type MountLister interface {
	MountPoints() ([]MountPoint, error)
}

// MountNamer derives a metric-safe name for a mount point.
type MountNamer func(MountPoint) string

var unsafeMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MountNameByDevice names a mount point after its device identifier with
// every character outside [a-zA-Z0-9_] replaced by an underscore. This is the
// default naming strategy.
func MountNameByDevice(mp MountPoint) string {
	return unsafeMetricChars.ReplaceAllString(mp.Name(), "_")
}

// MountNameByPath names a mount point after its mount path, extracted from
// the description as the substring before the first space. The root
// filesystem is named "root"; any other path loses its leading slash and is
// escaped like MountNameByDevice.
//
// Mount descriptions are not standardised, so this is best-effort: it assumes
// the "path (device)" form used on Unix-like platforms and falls back to
// escaping the whole description otherwise.
func MountNameByPath(mp MountPoint) string {
	desc := mp.Describe()
	path, _, _ := strings.Cut(desc, " ")
	if path == "" {
		path = desc
	}
	if path == "/" {
		return "root"
	}
	path = strings.TrimPrefix(path, "/")
	return unsafeMetricChars.ReplaceAllString(path, "_")
}

type filesystemOptions struct {
	namer          MountNamer
	skipZeroUsable bool
}

// FilesystemOption configures NewFilesystemSet.
type FilesystemOption func(*filesystemOptions)

// WithMountNamer overrides the naming strategy used for gauge keys.
func WithMountNamer(n MountNamer) FilesystemOption {
	return func(o *filesystemOptions) { o.namer = n }
}

// WithZeroUsableMounts toggles inclusion of mount points reporting zero
// usable space. These are skipped by default since they are typically
// virtual or pseudo filesystems of no monitoring interest.
func WithZeroUsableMounts(include bool) FilesystemOption {
	return func(o *filesystemOptions) { o.skipZeroUsable = !include }
}

// NewFilesystemSet enumerates lister's mount points once and returns five
// gauges per included mount under fs.<name>.{total_bytes, used_bytes,
// free_bytes, used_pc, free_pc}.
//
// A mount point whose usable-space read fails at construction is excluded
// entirely, as is one reporting zero usable space unless
// WithZeroUsableMounts(true) is given. Included mounts stay in the set for
// its lifetime; if a volume later disappears its gauges report -1 / -1.0.
//
// Note the deliberate asymmetry: free_bytes reports usable space (what the
// caller may actually write) while used_pc and free_pc are derived from
// unallocated space (raw free blocks). The two differ on filesystems with
// reserved blocks or quotas.
func NewFilesystemSet(lister MountLister, opts ...FilesystemOption) (gauge.Map, error) {
	cfg := filesystemOptions{namer: MountNameByDevice, skipZeroUsable: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	mounts, err := lister.MountPoints()
	if err != nil {
		return nil, fmt.Errorf("enumerate mount points: %w", err)
	}

	gauges := gauge.Map{}
	for _, mp := range mounts {
		mp := mp
		usable, err := mp.UsableBytes()
		if err != nil {
			// Volume is probably not visible anymore; exclude it.
			continue
		}
		if cfg.skipZeroUsable && usable == 0 {
			continue
		}

		name := cfg.namer(mp)

		gauges["fs."+name+".total_bytes"] = gauge.Int64Func(func() int64 {
			total, err := mp.TotalBytes()
			if err != nil {
				return gauge.SentinelInt64
			}
			return int64(total)
		})

		gauges["fs."+name+".used_bytes"] = gauge.Int64Func(func() int64 {
			total, err := mp.TotalBytes()
			if err != nil {
				return gauge.SentinelInt64
			}
			unallocated, err := mp.UnallocatedBytes()
			if err != nil {
				return gauge.SentinelInt64
			}
			return int64(total) - int64(unallocated)
		})

		gauges["fs."+name+".free_bytes"] = gauge.Int64Func(func() int64 {
			usable, err := mp.UsableBytes()
			if err != nil {
				return gauge.SentinelInt64
			}
			return int64(usable)
		})

		gauges["fs."+name+".used_pc"] = gauge.Float64Func(func() float64 {
			total, unallocated, err := rawSpace(mp)
			if err != nil {
				return gauge.SentinelFloat64
			}
			return (1 - float64(unallocated)/float64(total)) * 100
		})

		gauges["fs."+name+".free_pc"] = gauge.Float64Func(func() float64 {
			total, unallocated, err := rawSpace(mp)
			if err != nil {
				return gauge.SentinelFloat64
			}
			return float64(unallocated) / float64(total) * 100
		})
	}

	return gauges, nil
}

// rawSpace reads the counters backing the percentage gauges. A zero total is
// not an error; the division then yields the natural IEEE result.
func rawSpace(mp MountPoint) (total, unallocated uint64, err error) {
	total, err = mp.TotalBytes()
	if err != nil {
		return 0, 0, err
	}
	unallocated, err = mp.UnallocatedBytes()
	if err != nil {
		return 0, 0, err
	}
	return total, unallocated, nil
}
