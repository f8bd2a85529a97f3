package sqlite

import "github.com/prometheus/client_golang/prometheus"

// storeMetrics counts loader and flush activity. A nil receiver is a valid
// no-op, so stores built without WithMetrics skip all accounting.
type storeMetrics struct {
	loads          prometheus.Counter
	loadedElements prometheus.Counter
	flushes        prometheus.Counter
	flushedRows    prometheus.Counter
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	m := &storeMetrics{
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Collection loads served by the store.",
		}),
		loadedElements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "store",
			Name:      "loaded_elements_total",
			Help:      "Elements hydrated into collections.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "store",
			Name:      "flushes_total",
			Help:      "Collection flushes written by the store.",
		}),
		flushedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "store",
			Name:      "flushed_elements_total",
			Help:      "Element rows written during flushes.",
		}),
	}
	reg.MustRegister(m.loads, m.loadedElements, m.flushes, m.flushedRows)
	return m
}

func (m *storeMetrics) observeLoad(elements int) {
	if m == nil {
		return
	}
	m.loads.Inc()
	m.loadedElements.Add(float64(elements))
}

func (m *storeMetrics) observeFlush(elements int) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.flushedRows.Add(float64(elements))
}
