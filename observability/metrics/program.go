package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ProgramMetrics tracks the outcome of dispatched program instructions.
type ProgramMetrics struct {
	instructions *prometheus.CounterVec
	vaultsOpen   prometheus.Gauge
}

var (
	programOnce     sync.Once
	programRegistry *ProgramMetrics
)

// Program returns the process-wide program metrics, registering the
// collectors on first use.
func Program() *ProgramMetrics {
	programOnce.Do(func() {
		programRegistry = &ProgramMetrics{
			instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "rwa_instructions_total",
				Help: "Count of dispatched program instructions by operation and result.",
			}, []string{"op", "result"}),
			vaultsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "rwa_vaults_open",
				Help: "Number of vault records currently open.",
			}),
		}
		prometheus.MustRegister(programRegistry.instructions, programRegistry.vaultsOpen)
	})
	return programRegistry
}

// ObserveInstruction records one dispatched instruction outcome.
func (m *ProgramMetrics) ObserveInstruction(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.instructions.WithLabelValues(op, result).Inc()
}

// SetVaultsOpen updates the open-vault gauge.
func (m *ProgramMetrics) SetVaultsOpen(n int) {
	if m == nil {
		return
	}
	m.vaultsOpen.Set(float64(n))
}
