package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/mail"
)

func testQueueConfig() config.Tasks {
	return config.Tasks{
		Enabled:         true,
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, testQueueConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Ping())

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, testQueueConfig())
	require.NoError(t, err)
	defer client.Close()

	// Start client in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	// Stop should complete successfully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

// recordingMailer captures sent messages for assertions.
type recordingMailer struct {
	sent chan mail.Message
	err  error
}

func (m *recordingMailer) Send(msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent <- msg
	return nil
}

func TestSendEmailTaskDelivery(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, testQueueConfig())
	require.NoError(t, err)
	defer client.Close()

	mailer := &recordingMailer{sent: make(chan mail.Message, 1)}
	client.Register(NewSendEmailQueue(mailer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	msg := mail.Message{To: "reader@example.com", Subject: "Welcome", Body: "Hello"}
	ids, err := client.Add(NewSendEmailTask(msg)).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case got := <-mailer.sent:
		assert.Equal(t, msg, got)
	case <-time.After(5 * time.Second):
		t.Fatal("email task was not executed within timeout")
	}
}

func TestSendEmailProcessorMailerFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp unreachable")}
	processor := SendEmailProcessor(mailer)

	err := processor(context.Background(), SendEmailTask{To: "reader@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp unreachable")
}

// stubRefresher counts refresh invocations.
type stubRefresher struct {
	updated int
	err     error
	calls   int
}

func (r *stubRefresher) RefreshLateFees() (int, error) {
	r.calls++
	return r.updated, r.err
}

func TestRefreshLateFeesProcessor(t *testing.T) {
	refresher := &stubRefresher{updated: 3}
	processor := RefreshLateFeesProcessor(refresher)

	err := processor(context.Background(), RefreshLateFeesTask{})
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)
}

func TestRefreshLateFeesProcessorError(t *testing.T) {
	refresher := &stubRefresher{err: errors.New("db locked")}
	processor := RefreshLateFeesProcessor(refresher)

	err := processor(context.Background(), RefreshLateFeesTask{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestSendEmailTaskConfig(t *testing.T) {
	task := SendEmailTask{To: "reader@example.com"}
	cfg := task.Config()

	assert.Equal(t, "send_email", cfg.Name)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Backoff)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestRefreshLateFeesTaskConfig(t *testing.T) {
	cfg := RefreshLateFeesTask{}.Config()

	assert.Equal(t, "refresh_late_fees", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}
