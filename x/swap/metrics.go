package swap

import (
	"sync"

	"github.com/iov-one/pairswap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/common"
)

// StateTagKey tags a delivery result with the state a swap was left in.
const StateTagKey = "swap_state"

// transitioned builds the result of a message that saved or archived s.
func transitioned(data []byte, s *Swap) *pairswap.DeliverResult {
	return &pairswap.DeliverResult{
		Data: data,
		Tags: []common.KVPair{
			{Key: []byte(StateTagKey), Value: []byte(s.State.String())},
		},
	}
}

// TransitionCounter counts swap state transitions of delivered
// transactions. It must wrap the savepoint, so that only transitions of
// committed transactions are counted.
type TransitionCounter struct{}

var _ pairswap.Decorator = TransitionCounter{}

func NewTransitionCounter() TransitionCounter {
	return TransitionCounter{}
}

func (TransitionCounter) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (TransitionCounter) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil || res == nil {
		return res, err
	}
	m := metrics()
	for _, t := range res.Tags {
		if string(t.Key) == StateTagKey {
			m.transitions.WithLabelValues(string(t.Value)).Inc()
		}
	}
	return res, nil
}

// Metrics exposes the swap engine activity to prometheus.
type Metrics struct {
	transitions *prometheus.CounterVec
	findings    *prometheus.CounterVec
	live        prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsRegistry *Metrics
)

func metrics() *Metrics {
	metricsOnce.Do(func() {
		metricsRegistry = &Metrics{
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pairswap",
				Subsystem: "swap",
				Name:      "transitions_total",
				Help:      "Count of committed swap state transitions by resulting state.",
			}, []string{"state"}),
			findings: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pairswap",
				Subsystem: "swap",
				Name:      "reconcile_findings_total",
				Help:      "Count of inconsistencies reported by the reconciler by class.",
			}, []string{"class"}),
			live: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "pairswap",
				Subsystem: "swap",
				Name:      "live",
				Help:      "Number of swaps not yet cancelled or accepted.",
			}),
		}
		prometheus.MustRegister(
			metricsRegistry.transitions,
			metricsRegistry.findings,
			metricsRegistry.live,
		)
	})
	return metricsRegistry
}

func (m *Metrics) ObserveFinding(class string) {
	if m == nil {
		return
	}
	if class == "" {
		class = "unknown"
	}
	m.findings.WithLabelValues(class).Inc()
}

func (m *Metrics) SetLive(n int) {
	if m == nil {
		return
	}
	m.live.Set(float64(n))
}
