package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CRMProbeJobName is the name of the CRM reachability job
const CRMProbeJobName = "crm_probe"

// Pinger checks that the CRM answers with the configured token
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeResult is the outcome of the last CRM probe
type ProbeResult struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
}

// CRMProbeJob pings the CRM and keeps the last result for the readiness check
type CRMProbeJob struct {
	pinger  Pinger
	logger  *zap.Logger
	timeout time.Duration

	mu   sync.RWMutex
	last *ProbeResult
}

func NewCRMProbeJob(pinger Pinger, logger *zap.Logger, timeout time.Duration) *CRMProbeJob {
	return &CRMProbeJob{
		pinger:  pinger,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one probe. Called by the scheduler.
func (j *CRMProbeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	err := j.pinger.Ping(ctx)
	result := ProbeResult{
		Healthy:   err == nil,
		CheckedAt: start,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
		j.logger.Warn("CRM probe failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
	} else {
		j.logger.Debug("CRM probe succeeded", zap.Duration("duration", time.Since(start)))
	}

	j.mu.Lock()
	j.last = &result
	j.mu.Unlock()
}

// Last returns the latest probe result; ok is false before the first run
func (j *CRMProbeJob) Last() (ProbeResult, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return ProbeResult{}, false
	}
	return *j.last, true
}

// RegisterCRMProbeJob adds the probe to the scheduler. With runAtStartup the
// first probe runs in the background right away.
func RegisterCRMProbeJob(scheduler *Scheduler, pinger Pinger, logger *zap.Logger, cronExpr string, timeout time.Duration, runAtStartup bool) (*CRMProbeJob, error) {
	job := NewCRMProbeJob(pinger, logger, timeout)
	if err := scheduler.AddJob(CRMProbeJobName, cronExpr, job.Run); err != nil {
		return nil, err
	}
	if runAtStartup {
		go job.Run()
	}
	return job, nil
}
