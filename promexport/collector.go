// Package promexport bridges gauge sets into a Prometheus registry, playing
// the external-collector role: it owns naming, scheduling and serialization
// concerns the gauge sets themselves stay out of.
package promexport

import (
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/turn/metrics-system/gauge"
)

var unsafePromChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

// Collector exposes a gauge.Set as a prometheus.Collector. The descriptor set
// is fixed at construction, mirroring the set's fixed membership; every
// scrape re-evaluates each gauge.
type Collector struct {
	gauges gauge.Map
	descs  map[string]*prometheus.Desc
}

// NewCollector wraps set for registration with a Prometheus registry. Gauge
// names are rewritten to Prometheus form: dots become underscores and the
// optional namespace is prepended.
func NewCollector(namespace string, set gauge.Set) *Collector {
	c := &Collector{gauges: gauge.Map{}, descs: map[string]*prometheus.Desc{}}
	for name, g := range set.Gauges() {
		c.gauges[name] = g
		c.descs[name] = prometheus.NewDesc(
			metricName(namespace, name),
			"Point-in-time reading of the "+name+" gauge.",
			nil, nil,
		)
	}
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, g := range c.gauges {
		ch <- prometheus.MustNewConstMetric(c.descs[name], prometheus.GaugeValue, g.Float())
	}
}

func metricName(namespace, name string) string {
	full := strings.ReplaceAll(name, ".", "_")
	if namespace != "" {
		full = namespace + "_" + full
	}
	return unsafePromChars.ReplaceAllString(full, "_")
}
