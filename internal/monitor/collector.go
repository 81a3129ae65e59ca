package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Source as Prometheus metrics. Values are read at
// scrape time, so the hot path never touches Prometheus types.
type Collector struct {
	src Source

	lines       *prometheus.Desc
	matched     *prometheus.Desc
	enqueued    *prometheus.Desc
	overwritten *prometheus.Desc
	rejected    *prometheus.Desc
	written     *prometheus.Desc
	bytes       *prometheus.Desc
	flushes     *prometheus.Desc
	writeErrors *prometheus.Desc
	depth       *prometheus.Desc
	capacity    *prometheus.Desc
}

// NewCollector creates a collector for src. Every metric carries a "sink"
// label with the snapshot's name.
func NewCollector(namespace string, src Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "sink", name), help, []string{"sink"}, nil)
	}
	return &Collector{
		src:         src,
		lines:       desc("lines_total", "Input lines read by the pipeline"),
		matched:     desc("matched_lines_total", "Input lines that passed the filters"),
		enqueued:    desc("records_enqueued_total", "Records accepted by the ring"),
		overwritten: desc("records_overwritten_total", "Records lost to ring overflow"),
		rejected:    desc("records_rejected_total", "Records refused after shutdown began"),
		written:     desc("records_written_total", "Records handed to the writer"),
		bytes:       desc("bytes_written_total", "Bytes handed to the writer"),
		flushes:     desc("flushes_total", "Writer flushes"),
		writeErrors: desc("write_errors_total", "Failed writes and flushes"),
		depth:       desc("ring_depth", "Unread records in the ring"),
		capacity:    desc("ring_capacity", "Ring capacity in records"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.lines, c.matched, c.enqueued, c.overwritten, c.rejected, c.written,
		c.bytes, c.flushes, c.writeErrors, c.depth, c.capacity,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Snapshot()
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), s.Name)
	}
	counter(c.lines, s.Lines)
	counter(c.matched, s.Matched)
	counter(c.enqueued, s.Enqueued)
	counter(c.overwritten, s.Overwritten)
	counter(c.rejected, s.Rejected)
	counter(c.written, s.Written)
	counter(c.bytes, s.Bytes)
	counter(c.flushes, s.Flushes)
	counter(c.writeErrors, s.WriteErrors)
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Depth), s.Name)
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity), s.Name)
}
