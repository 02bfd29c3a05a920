package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
)

type fakeProvisioner struct {
	calls atomic.Int32
	res   *ferias.BulkResult
	err   error
}

func (f *fakeProvisioner) BulkProvision(ctx context.Context) (*ferias.BulkResult, error) {
	f.calls.Add(1)
	return f.res, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvisionScheduler_RunNow(t *testing.T) {
	// GIVEN: A provisioner that opens one period and skips two employees
	fake := &fakeProvisioner{res: &ferias.BulkResult{
		Created: []ferias.AccrualPeriod{{ID: "pa-2"}},
		Skipped: []string{"emp-2", "emp-3"},
	}}
	ps := NewProvisionScheduler(fake, quietLogger())
	assert.Nil(t, ps.LastRun())

	// WHEN: Running a pass by hand
	run := ps.RunNow(context.Background())

	// THEN: The outcome is recorded
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 2, run.Skipped)
	assert.Empty(t, run.Error)
	require.NotNil(t, ps.LastRun())
	assert.Equal(t, run, *ps.LastRun())
	assert.Equal(t, run.StartedAt.Add(24*time.Hour), ps.GetNextRunTime())
}

func TestProvisionScheduler_RunNowRecordsErrors(t *testing.T) {
	fake := &fakeProvisioner{
		res: &ferias.BulkResult{Skipped: []string{"emp-2"}},
		err: errors.New("employee emp-9: boom"),
	}
	ps := NewProvisionScheduler(fake, quietLogger())

	run := ps.RunNow(context.Background())

	assert.Equal(t, 0, run.Created)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, "employee emp-9: boom", run.Error)
}

func TestProvisionScheduler_StartRunsImmediately(t *testing.T) {
	fake := &fakeProvisioner{res: &ferias.BulkResult{}}
	ps := NewProvisionScheduler(fake, quietLogger())
	ps.CheckInterval = time.Hour

	ps.Start()
	assert.Eventually(t, func() bool { return fake.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	ps.Stop()

	// Stop is idempotent
	ps.Stop()
	assert.NotNil(t, ps.LastRun())
}

func TestProvisionScheduler_Disabled(t *testing.T) {
	fake := &fakeProvisioner{res: &ferias.BulkResult{}}
	ps := NewProvisionScheduler(fake, quietLogger())
	ps.Enabled = false

	ps.Start()
	ps.Stop()

	assert.Equal(t, int32(0), fake.calls.Load())
	assert.Nil(t, ps.LastRun())
}
