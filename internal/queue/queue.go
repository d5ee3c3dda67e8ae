package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"go.uber.org/zap"
)

const (
	// StatusInfoExpiry controls how long job status keys remain in Redis.
	StatusInfoExpiry = 1 * time.Hour

	// StatusPending indicates a job is waiting in the queue.
	StatusPending = "Pending"
	// StatusProcessing indicates a worker claimed the job.
	StatusProcessing = "Processing"
	// StatusComplete indicates the thumbnail was stored.
	StatusComplete = "Complete"
	// StatusFailed indicates the worker gave up on the job.
	StatusFailed = "Failed"

	// PendingKey is the sorted set of submission IDs scored by queue time.
	PendingKey = "thumbnail_queue:pending"
	// PayloadKey is the hash of submission ID to serialized job.
	PayloadKey = "thumbnail_queue:jobs"
	// StatusPrefix namespaces job status keys as "thumbnail_status:{submissionID}".
	StatusPrefix = "thumbnail_status:"
)

// ErrEmptyBatch is returned when Pop is called with a non-positive batch size.
var ErrEmptyBatch = errors.New("batch size must be positive")

// enqueueScript stores the payload, schedules the member and marks it pending in one step.
var enqueueScript = rueidis.NewLuaScript(`
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
redis.call('SET', KEYS[3], ARGV[4], 'EX', ARGV[5])
return 1
`)

// claimScript removes up to ARGV[1] of the oldest members together with their
// payloads and returns them as member, payload pairs. Members without a payload
// are removed and skipped.
var claimScript = rueidis.NewLuaScript(`
local members = redis.call('ZRANGE', KEYS[1], 0, tonumber(ARGV[1]) - 1)
local claimed = {}
for _, member in ipairs(members) do
	redis.call('ZREM', KEYS[1], member)
	local payload = redis.call('HGET', KEYS[2], member)
	if payload then
		redis.call('HDEL', KEYS[2], member)
		table.insert(claimed, member)
		table.insert(claimed, payload)
	end
end
return claimed
`)

// Manager stores thumbnail jobs in Redis. A job is keyed by its submission,
// so queueing the same submission twice keeps a single pending job.
type Manager struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewManager creates a thumbnail queue backed by client.
func NewManager(client rueidis.Client, logger *zap.Logger) *Manager {
	return &Manager{
		client: client,
		logger: logger.Named("thumbnail_queue"),
	}
}

// Dispatch adds job to the queue. It implements service.ThumbnailDispatcher.
func (m *Manager) Dispatch(ctx context.Context, job *types.ThumbnailJob) error {
	if job.QueuedAt.IsZero() {
		job.QueuedAt = time.Now()
	}

	payload, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal thumbnail job: %w", err)
	}

	member := strconv.FormatUint(job.SubmissionID, 10)
	err = enqueueScript.Exec(ctx, m.client,
		[]string{PayloadKey, PendingKey, statusKey(job.SubmissionID)},
		[]string{
			member,
			string(payload),
			strconv.FormatInt(job.QueuedAt.UnixMilli(), 10),
			StatusPending,
			strconv.Itoa(int(StatusInfoExpiry.Seconds())),
		},
	).Error()
	if err != nil {
		return fmt.Errorf("failed to queue thumbnail job: %w", err)
	}

	m.logger.Debug("Queued thumbnail job",
		zap.Uint64("submissionID", job.SubmissionID),
		zap.String("reason", job.Reason))

	return nil
}

// Pop claims up to batchSize of the oldest jobs. A job popped by one worker is
// never returned to another.
func (m *Manager) Pop(ctx context.Context, batchSize int) ([]*types.ThumbnailJob, error) {
	if batchSize <= 0 {
		return nil, ErrEmptyBatch
	}

	claimed, err := claimScript.Exec(ctx, m.client,
		[]string{PendingKey, PayloadKey},
		[]string{strconv.Itoa(batchSize)},
	).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to claim thumbnail jobs: %w", err)
	}

	jobs := make([]*types.ThumbnailJob, 0, len(claimed)/2)
	for i := 0; i+1 < len(claimed); i += 2 {
		var job types.ThumbnailJob
		if err := sonic.UnmarshalString(claimed[i+1], &job); err != nil {
			m.logger.Error("Dropping unreadable thumbnail job", zap.Error(err), zap.String("member", claimed[i]))
			continue
		}

		if err := m.SetStatus(ctx, job.SubmissionID, StatusProcessing); err != nil {
			m.logger.Warn("Failed to mark thumbnail job processing", zap.Error(err))
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// Length returns the number of pending jobs.
func (m *Manager) Length(ctx context.Context) (int, error) {
	count, err := m.client.Do(ctx, m.client.B().Zcard().Key(PendingKey).Build()).ToInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return int(count), nil
}

// SetStatus records the processing status of a submission's job with expiry.
func (m *Manager) SetStatus(ctx context.Context, submissionID uint64, status string) error {
	if err := m.client.Do(ctx, m.statusCmd(submissionID, status)).Error(); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// GetStatus returns the processing status of a submission's job, or "" if unknown.
func (m *Manager) GetStatus(ctx context.Context, submissionID uint64) (string, error) {
	status, err := m.client.Do(ctx, m.client.B().Get().Key(statusKey(submissionID)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

func (m *Manager) statusCmd(submissionID uint64, status string) rueidis.Completed {
	return m.client.B().Set().Key(statusKey(submissionID)).Value(status).Ex(StatusInfoExpiry).Build()
}

func statusKey(submissionID uint64) string {
	return StatusPrefix + strconv.FormatUint(submissionID, 10)
}
