package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// HeartbeatInterval is how often workers report their status.
	HeartbeatInterval = 10 * time.Second

	// HeartbeatTTL is how long a worker's status remains valid.
	HeartbeatTTL = 10 * time.Minute

	// StatusKeyPrefix namespaces status keys as "worker:{type}:{id}".
	StatusKeyPrefix = "worker:"
)

// Status represents a worker's current state.
type Status struct {
	WorkerID    string    `json:"workerId"`
	WorkerType  string    `json:"workerType"`
	LastSeen    time.Time `json:"lastSeen"`
	CurrentTask string    `json:"currentTask,omitempty"`
	BatchSize   int       `json:"batchSize,omitempty"`
	Processed   int       `json:"processed"`
	Failed      int       `json:"failed"`
	IsHealthy   bool      `json:"isHealthy"`
}

// Monitor stores and reads worker heartbeats in Redis.
type Monitor struct {
	client rueidis.Client
}

// NewMonitor creates a new worker status monitor.
func NewMonitor(client rueidis.Client) *Monitor {
	return &Monitor{client: client}
}

// ReportStatus stores the status with a fresh LastSeen and HeartbeatTTL.
func (m *Monitor) ReportStatus(ctx context.Context, status Status) error {
	status.LastSeen = time.Now()

	data, err := sonic.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	key := StatusKeyPrefix + status.WorkerType + ":" + status.WorkerID
	err = m.client.Do(ctx, m.client.B().Set().Key(key).Value(string(data)).Ex(HeartbeatTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to store status: %w", err)
	}

	return nil
}

// GetStatus reads the status of one worker.
func (m *Monitor) GetStatus(ctx context.Context, workerType, workerID string) (*Status, error) {
	data, err := m.client.Do(ctx, m.client.B().Get().Key(StatusKeyPrefix+workerType+":"+workerID).Build()).AsBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get worker status: %w", err)
	}

	var status Status
	if err := sonic.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker status: %w", err)
	}

	return &status, nil
}

// StatusReporter periodically publishes a worker's status.
type StatusReporter struct {
	monitor  *Monitor
	status   Status
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewStatusReporter creates a reporter with a random worker ID.
func NewStatusReporter(client rueidis.Client, workerType string, logger *zap.Logger) *StatusReporter {
	return &StatusReporter{
		monitor: NewMonitor(client),
		status: Status{
			WorkerID:   uuid.New().String(),
			WorkerType: workerType,
			IsHealthy:  true,
		},
		stopChan: make(chan struct{}),
		logger:   logger.Named("status_reporter"),
	}
}

// Start begins periodic status reporting until ctx ends or Stop is called.
func (r *StatusReporter) Start(ctx context.Context) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(HeartbeatInterval)
		defer ticker.Stop()

		r.report(ctx)

		for {
			select {
			case <-ticker.C:
				r.report(ctx)
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			}
		}
	}()
}

func (r *StatusReporter) report(ctx context.Context) {
	if err := r.monitor.ReportStatus(ctx, r.Snapshot()); err != nil {
		r.logger.Error("Failed to report status", zap.Error(err))
	}
}

// Stop ends status reporting.
func (r *StatusReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.stopped {
		close(r.stopChan)
		r.stopped = true
	}
}

// UpdateTask records what the worker is doing.
func (r *StatusReporter) UpdateTask(task string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.CurrentTask = task
}

// StartBatch records the size of the batch the worker is about to process.
func (r *StatusReporter) StartBatch(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.BatchSize = total
}

// AddResults accumulates processed and failed job counts.
func (r *StatusReporter) AddResults(processed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Processed += processed
	r.status.Failed += failed
}

// SetHealthy updates the health status.
func (r *StatusReporter) SetHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.IsHealthy = healthy
}

// Snapshot returns a copy of the current status.
func (r *StatusReporter) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// GetWorkerID returns the unique worker ID.
func (r *StatusReporter) GetWorkerID() string {
	return r.status.WorkerID
}
