package utils

import (
	"strconv"
	"sync"
	"time"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions by message path
// and result and observes the time spent delivering them.
type Metrics struct{}

var _ pairswap.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator
func NewMetrics() Metrics {
	return Metrics{}
}

var (
	txMetricsOnce sync.Once
	txCount       *prometheus.CounterVec
	txDuration    *prometheus.HistogramVec
)

func txMetrics() (*prometheus.CounterVec, *prometheus.HistogramVec) {
	txMetricsOnce.Do(func() {
		txCount = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pairswap",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Count of processed transactions by phase, path and result code.",
		}, []string{"phase", "path", "code"})
		txDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pairswap",
			Subsystem: "tx",
			Name:      "deliver_seconds",
			Help:      "Time spent delivering a transaction by path.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"path"})
		prometheus.MustRegister(txCount, txDuration)
	})
	return txCount, txDuration
}

func (Metrics) Check(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error) {
	res, err := next.Check(ctx, store, tx)
	observeTx("check", tx, err)
	return res, err
}

func (Metrics) Deliver(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	_, duration := txMetrics()
	duration.WithLabelValues(safePath(tx)).Observe(time.Since(start).Seconds())
	observeTx("deliver", tx, err)
	return res, err
}

func observeTx(phase string, tx pairswap.Tx, err error) {
	count, _ := txMetrics()
	code, _ := errors.ABCIInfo(err, false)
	count.WithLabelValues(phase, safePath(tx), codeLabel(code)).Inc()
}

func codeLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
