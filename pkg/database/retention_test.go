package database

import (
	"errors"
	"testing"
	"time"

	"github.com/latoulicious/hutbot/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockPruner struct {
	mock.Mock
}

func (m *mockPruner) PruneBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newTestLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return logging.NewZapLogger("retention", zap.New(core)), logs
}

func TestNewRetentionJob_Validation(t *testing.T) {
	logger, _ := newTestLogger()

	_, err := NewRetentionJob(&mockPruner{}, "not a schedule", time.Hour, logger)
	assert.Error(t, err)

	_, err = NewRetentionJob(&mockPruner{}, "@daily", 0, logger)
	assert.Error(t, err)

	job, err := NewRetentionJob(&mockPruner{}, "0 4 * * *", time.Hour, logger)
	require.NoError(t, err)
	assert.True(t, job.NextRun().IsZero())
}

func TestRetentionJob_Run(t *testing.T) {
	logger, logs := newTestLogger()
	now := time.Date(2024, time.June, 30, 4, 0, 0, 0, time.UTC)

	pruner := &mockPruner{}
	pruner.On("PruneBefore", now.Add(-720*time.Hour)).Return(int64(42), nil).Once()

	job, err := NewRetentionJob(pruner, "@daily", 720*time.Hour, logger)
	require.NoError(t, err)
	job.now = func() time.Time { return now }

	job.Run()

	pruner.AssertExpectations(t)
	completed := logs.FilterMessage("[retention] Log retention completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(42), completed[0].ContextMap()["deleted"])
	assert.False(t, job.IsRunning())
}

func TestRetentionJob_RunFailure(t *testing.T) {
	logger, logs := newTestLogger()

	pruner := &mockPruner{}
	pruner.On("PruneBefore", mock.AnythingOfType("time.Time")).Return(int64(0), errors.New("db down"))

	job, err := NewRetentionJob(pruner, "@every 1h", time.Hour, logger)
	require.NoError(t, err)

	job.Run()

	assert.Equal(t, 1, logs.FilterMessage("[retention] Log retention failed").Len())
}

func TestRetentionJob_StartStop(t *testing.T) {
	logger, _ := newTestLogger()

	job, err := NewRetentionJob(&mockPruner{}, "@daily", time.Hour, logger)
	require.NoError(t, err)

	job.Start()
	assert.False(t, job.NextRun().IsZero())

	select {
	case <-job.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("retention job did not stop")
	}
}
