// Package selftest runs the connectivity and setup checks behind
// pwm self-check.
package selftest

import (
	"context"
	"sync"
	"time"

	"github.com/joss/pwm/internal/logging"
)

// CheckTimeout bounds a single probe.
const CheckTimeout = 10 * time.Second

// Status is the verdict of one probe.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Probe is one named check. Skip marks a collaborator that is not
// configured; its Run is never called.
type Probe struct {
	Name string
	Hint string
	Skip bool
	Run  func(ctx context.Context) (string, error)
}

// Result is the outcome of a probe.
type Result struct {
	Name    string
	Status  Status
	Message string
	Hint    string
	Latency time.Duration
}

// Display renders the status column.
func (r Result) Display() string {
	switch r.Status {
	case StatusSkipped:
		return "<skipped>"
	case StatusOK:
		if r.Message == "" {
			return "ok"
		}
		return r.Message
	default:
		return r.Message
	}
}

// Report collects results in probe order.
type Report struct {
	Results []Result
}

// OK is true when nothing failed. Skipped probes do not count against it.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Rows renders the report table body.
func (r *Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		hint := ""
		if res.Status != StatusOK {
			hint = res.Hint
		}
		rows = append(rows, []string{res.Name, res.Display(), hint})
	}
	return rows
}

// Run executes the probes concurrently.
func Run(ctx context.Context, probes []Probe) *Report {
	log := logging.New("selftest").WithContext(ctx)
	report := &Report{Results: make([]Result, len(probes))}

	var wg sync.WaitGroup
	for i, p := range probes {
		if p.Skip || p.Run == nil {
			report.Results[i] = Result{Name: p.Name, Status: StatusSkipped, Hint: p.Hint}
			continue
		}
		wg.Add(1)
		go func(i int, p Probe) {
			defer wg.Done()
			report.Results[i] = runProbe(ctx, log, p)
		}(i, p)
	}
	wg.Wait()
	return report
}

func runProbe(ctx context.Context, log *logging.Logger, p Probe) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	msg, err := p.Run(ctx)
	res := Result{Name: p.Name, Hint: p.Hint, Latency: time.Since(start)}
	if err != nil {
		res.Status = StatusFailed
		res.Message = err.Error()
		log.Failed("probe_failed", start, map[string]interface{}{"probe": p.Name}, err)
		return res
	}
	res.Status = StatusOK
	res.Message = msg
	log.TimedEvent("probe_ok", start, map[string]interface{}{"probe": p.Name})
	return res
}
