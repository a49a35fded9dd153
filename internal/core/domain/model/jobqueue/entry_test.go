package jobqueue_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/jobqueue"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("creates pending entry", func(t *testing.T) {
		runAt := time.Now().UTC().Add(time.Hour)
		payload := json.RawMessage(`{"deliveryId":"d-1"}`)

		e, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, payload, runAt)

		require.NoError(t, err)
		assert.Equal(t, jobqueue.JobCheckDeliveryClaim, e.JobType())
		assert.Equal(t, payload, e.Payload())
		assert.Equal(t, runAt, e.RunAt())
		assert.Equal(t, jobqueue.StatusPending, e.Status())
		require.NoError(t, e.Validate())
	})

	t.Run("rejects empty type", func(t *testing.T) {
		_, err := jobqueue.NewEntry("", nil, time.Now())
		require.Error(t, err)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, json.RawMessage(`{oops`), time.Now())
		require.Error(t, err)
	})
}

func TestEntry_IsDue(t *testing.T) {
	runAt := time.Now().UTC()
	e, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, nil, runAt)
	require.NoError(t, err)

	assert.False(t, e.IsDue(runAt.Add(-time.Second)))
	assert.True(t, e.IsDue(runAt))
	assert.True(t, e.IsDue(runAt.Add(time.Minute)))

	require.NoError(t, e.Start())
	assert.False(t, e.IsDue(runAt.Add(time.Minute)))
}

func TestEntry_Lifecycle(t *testing.T) {
	t.Run("pending to running to done", func(t *testing.T) {
		e, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, nil, time.Now())
		require.NoError(t, err)

		require.NoError(t, e.Start())
		assert.Equal(t, jobqueue.StatusRunning, e.Status())

		require.NoError(t, e.Complete())
		assert.Equal(t, jobqueue.StatusDone, e.Status())
	})

	t.Run("running to failed records cause", func(t *testing.T) {
		e, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, nil, time.Now())
		require.NoError(t, err)
		require.NoError(t, e.Start())

		require.NoError(t, e.Fail(errors.New("delivery not found")))

		assert.Equal(t, jobqueue.StatusFailed, e.Status())
		assert.Equal(t, "delivery not found", e.LastError())
	})

	t.Run("illegal moves are rejected", func(t *testing.T) {
		e, err := jobqueue.NewEntry(jobqueue.JobCheckDeliveryClaim, nil, time.Now())
		require.NoError(t, err)

		require.ErrorIs(t, e.Complete(), jobqueue.ErrEntryIsNotRunning)
		require.ErrorIs(t, e.Fail(nil), jobqueue.ErrEntryIsNotRunning)

		require.NoError(t, e.Start())
		require.ErrorIs(t, e.Start(), jobqueue.ErrEntryIsNotPending)
	})
}

func TestRestoreEntry(t *testing.T) {
	id := kernel.NewUUID()
	runAt := time.Now().UTC()

	e, err := jobqueue.RestoreEntry(id, jobqueue.JobCheckDeliveryClaim, nil, runAt, jobqueue.StatusRunning, "", runAt.Add(-time.Hour))

	require.NoError(t, err)
	assert.Equal(t, id, e.ID())
	assert.Equal(t, jobqueue.StatusRunning, e.Status())

	_, err = jobqueue.RestoreEntry(id, jobqueue.JobCheckDeliveryClaim, nil, runAt, jobqueue.Status(42), "", runAt)
	require.Error(t, err)
}
