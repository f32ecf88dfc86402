package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(sweepRemovedTotal, sweepRunsTotal)
}

var sweepRemovedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "retention_sweep_removed_total",
		Help: "Total upload-area entries removed by retention sweeps.",
	},
)

var sweepRunsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "retention_sweep_runs_total",
		Help: "Total retention sweep passes executed.",
	},
)

// RecordSweep counts one sweep pass and the entries it removed.
func RecordSweep(removed int) {
	sweepRunsTotal.Inc()
	if removed > 0 {
		sweepRemovedTotal.Add(float64(removed))
	}
}
