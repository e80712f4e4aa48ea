package seq

import "context"

type Status string

const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
)

// ScopeReport is the read-only drift detail for one sampled scope.
type ScopeReport struct {
	Scope      string `json:"scope"`
	CounterVal int64  `json:"counter_value"`
	DurableMax int64  `json:"durable_max"`
	Drifted    bool   `json:"drifted"`
	Err        string `json:"error,omitempty"`
}

// Report is the result of one consistency check.
type Report struct {
	Status Status        `json:"status"`
	Scopes []ScopeReport `json:"scopes"`
}

// Monitor performs the reconciler's comparison over a bounded sample but
// never mutates either store. Cheap enough to poll frequently; detection and
// correction are scheduled independently.
type Monitor struct {
	counters   CounterStore
	durable    DurableStore
	sampleSize int
}

func NewMonitor(counters CounterStore, durable DurableStore, sampleSize int) *Monitor {
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}
	return &Monitor{counters: counters, durable: durable, sampleSize: sampleSize}
}

// Check reports StatusWarning if any sampled scope's counter is behind the
// durable maximum, StatusHealthy otherwise. A read error for one scope is
// reported in its entry and counts as a warning.
func (m *Monitor) Check(ctx context.Context) (Report, error) {
	scopes, err := m.durable.SampleScopes(ctx, m.sampleSize)
	if err != nil {
		return Report{}, err
	}

	report := Report{Status: StatusHealthy, Scopes: make([]ScopeReport, 0, len(scopes))}
	for _, scope := range scopes {
		entry := ScopeReport{Scope: scope}
		counterVal, dbMax, err := compareScope(ctx, m.counters, m.durable, scope)
		if err != nil {
			entry.Err = err.Error()
			report.Status = StatusWarning
		} else {
			entry.CounterVal = counterVal
			entry.DurableMax = dbMax
			entry.Drifted = counterVal < dbMax
			if entry.Drifted {
				report.Status = StatusWarning
			}
		}
		report.Scopes = append(report.Scopes, entry)
	}
	return report, nil
}
