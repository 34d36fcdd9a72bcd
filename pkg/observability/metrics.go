package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/ports"
)

// Metrics holds the engine-level Prometheus collectors.
type Metrics struct {
	assemblies *prometheus.CounterVec
	failures   *prometheus.CounterVec
	reads      *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		assemblies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weft_assembly_total",
			Help: "Number of successful component assemblies.",
		}, []string{"component"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weft_assembly_failures_total",
			Help: "Number of failed component assemblies.",
		}, []string{"component"}),
		reads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weft_instance_reads_total",
			Help: "Number of property reads served by assembled instances.",
		}, []string{"component"}),
	}
}

// Component wraps a declared component so its assemblies and instance reads
// are counted. The wrapped component behaves identically otherwise.
type Component struct {
	inner   *weft.Component
	metrics *Metrics
}

// Instrument wraps c with metric counting.
func Instrument(c *weft.Component, m *Metrics) *Component {
	return &Component{inner: c, metrics: m}
}

// Name returns the wrapped component's name.
func (c *Component) Name() string {
	return c.inner.Name()
}

// Assemble delegates to the wrapped component and counts the outcome.
func (c *Component) Assemble(store ports.Store) (*Instance, error) {
	inst, err := c.inner.Assemble(store)
	if err != nil {
		c.metrics.failures.WithLabelValues(c.inner.Name()).Inc()
		return nil, err
	}
	c.metrics.assemblies.WithLabelValues(c.inner.Name()).Inc()
	return &Instance{Instance: inst, metrics: c.metrics, component: c.inner.Name()}, nil
}

// Instance counts property reads on top of an assembled instance.
type Instance struct {
	*weft.Instance

	metrics   *Metrics
	component string
}

// Get reads one namespaced property and counts the read.
func (i *Instance) Get(key string) (any, error) {
	i.metrics.reads.WithLabelValues(i.component).Inc()
	return i.Instance.Get(key)
}
