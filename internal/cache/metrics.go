package cache

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is anything that can report a Stats snapshot. Both Cache and
// SafeCache satisfy it; only SafeCache may be scraped while other goroutines
// use it.
type StatsSource interface {
	Stats() Stats
}

// Collector exports the counters of named caches as Prometheus metrics.
//
// Values are read at scrape time, so the caches carry no metric state of
// their own.
type Collector struct {
	mu     sync.RWMutex
	caches map[string]StatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	evictions  *prometheus.Desc
	entries    *prometheus.Desc
	countLimit *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	labels := []string{"cache"}
	return &Collector{
		caches: make(map[string]StatsSource),
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hits_total"),
			"Total number of cache lookups that found their key",
			labels, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "misses_total"),
			"Total number of cache lookups that did not find their key",
			labels, nil,
		),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "evictions_total"),
			"Total number of entries evicted to honor the count limit",
			labels, nil,
		),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Current number of cached entries",
			labels, nil,
		),
		countLimit: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "count_limit"),
			"Configured maximum number of entries, 0 when unlimited",
			labels, nil,
		),
	}
}

// Add registers a cache under name, replacing any cache already using it.
func (c *Collector) Add(name string, src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caches[name] = src
}

// Delete stops exporting the cache registered under name.
func (c *Collector) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.caches, name)
}

// Names returns the registered cache names in sorted order.
func (c *Collector) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.caches))
	for name := range c.caches {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.countLimit
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, src := range c.caches {
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Count), name)
		ch <- prometheus.MustNewConstMetric(c.countLimit, prometheus.GaugeValue, float64(s.CountLimit), name)
	}
}
