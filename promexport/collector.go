// Package promexport exposes a histogram as a Prometheus collector, the way
// arx-backend's gateway middleware wires its own request/response
// distributions into prometheus.HistogramVec instead of hand-rolling a text
// exposition format.
package promexport

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fako1024/nhist/hist"
)

// Collector adapts a *hist.Histogram to prometheus.Collector, publishing two
// gauge samples per bin (the value under name, the variance under
// name_variance), labeled by the bin's per-axis internal index. Each
// Collector carries a stable instance ID so that two collectors wrapping
// distinct histograms under the same name/labels don't collide in a
// registry that dedupes by descriptor.
type Collector struct {
	h          *hist.Histogram
	name       string
	help       string
	labels     prometheus.Labels
	instanceID string

	valueDesc    *prometheus.Desc
	varianceDesc *prometheus.Desc
}

// New wraps h for export under the given metric name.
func New(h *hist.Histogram, name, help string, constLabels prometheus.Labels) *Collector {
	id := uuid.NewString()

	variableLabels := make([]string, h.Rank())
	for i := range variableLabels {
		variableLabels[i] = fmt.Sprintf("axis%d", i)
	}

	labels := prometheus.Labels{"instance": id}
	for k, v := range constLabels {
		labels[k] = v
	}

	return &Collector{
		h:          h,
		name:       name,
		help:       help,
		labels:     labels,
		instanceID: id,
		valueDesc: prometheus.NewDesc(
			name, help, variableLabels, labels,
		),
		varianceDesc: prometheus.NewDesc(
			name+"_variance", help+" (variance)", variableLabels, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.valueDesc
	ch <- c.varianceDesc
}

// Collect implements prometheus.Collector, walking every bin via the
// histogram's iterator and emitting a gauge pair for each.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	it := c.h.Begin()
	if it.Done() {
		return
	}
	for {
		idx := it.Indices()
		cell := it.Cell()

		labelValues := make([]string, len(idx))
		for i, v := range idx {
			labelValues[i] = fmt.Sprintf("%d", v)
		}

		ch <- prometheus.MustNewConstMetric(c.valueDesc, prometheus.GaugeValue, cell.Value, labelValues...)
		ch <- prometheus.MustNewConstMetric(c.varianceDesc, prometheus.GaugeValue, cell.Variance, labelValues...)

		if !it.Next() {
			break
		}
	}
}
