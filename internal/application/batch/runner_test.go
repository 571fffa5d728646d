package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/shared"
)

type fakeProcessor struct {
	mu       sync.Mutex
	files    []string
	failOn   map[string]bool
	finished chan struct{}
	total    int
}

func newFakeProcessor(total int) *fakeProcessor {
	return &fakeProcessor{failOn: map[string]bool{}, finished: make(chan struct{}), total: total}
}

func (f *fakeProcessor) ProcessImage(ctx context.Context, filename string, image []byte) (*equipment.Equipment, error) {
	f.mu.Lock()
	f.files = append(f.files, filename)
	done := len(f.files) == f.total
	f.mu.Unlock()
	if done {
		close(f.finished)
	}
	if f.failOn[filename] {
		return nil, errors.New("extraction failed")
	}
	return &equipment.Equipment{Name: filename}, nil
}

func (f *fakeProcessor) processed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...)
}

func waitForJob(t *testing.T, tr *Tracker, jobID string) Snapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		snap, ok := tr.Snapshot(jobID)
		require.True(t, ok)
		if snap.Status != StatusProcessing {
			return snap
		}
		select {
		case <-deadline:
			t.Fatal("job did not finish in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSupportedImage(t *testing.T) {
	assert.True(t, SupportedImage("a.jpg"))
	assert.True(t, SupportedImage("A.JPEG"))
	assert.True(t, SupportedImage("x.webp"))
	assert.False(t, SupportedImage("notes.txt"))
	assert.False(t, SupportedImage("archive.zip"))
	assert.False(t, SupportedImage("noext"))
}

func TestRunLocalSweepsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.png", "skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	proc := newFakeProcessor(2)
	tr := NewTracker()
	r := NewRunner(proc, tr, dir, 0, zap.NewNop())

	jobID, err := r.RunLocal(context.Background())
	require.NoError(t, err)

	snap := waitForJob(t, tr, jobID)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 2, snap.Total)
	assert.Empty(t, snap.Errors)
	assert.ElementsMatch(t, []string{"a.jpg", "b.png"}, proc.processed())
}

func TestRunLocalEmptyDirectory(t *testing.T) {
	r := NewRunner(newFakeProcessor(0), NewTracker(), t.TempDir(), 0, zap.NewNop())
	_, err := r.RunLocal(context.Background())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRunSourcesContinuesPastItemErrors(t *testing.T) {
	proc := newFakeProcessor(3)
	proc.failOn["bad.jpg"] = true
	tr := NewTracker()
	r := NewRunner(proc, tr, "", 0, zap.NewNop())

	sources := []Source{
		ByteSource{FileName: "ok1.jpg", Data: []byte("x")},
		ByteSource{FileName: "bad.jpg", Data: []byte("x")},
		ByteSource{FileName: "ok2.jpg", Data: []byte("x")},
	}
	jobID, err := r.RunSources(context.Background(), sources)
	require.NoError(t, err)

	snap := waitForJob(t, tr, jobID)
	assert.Equal(t, StatusCompleted, snap.Status)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "bad.jpg", snap.Errors[0].File)
	assert.Len(t, proc.processed(), 3)
}

func TestRunSourcesRejectsSecondJob(t *testing.T) {
	proc := newFakeProcessor(1)
	tr := NewTracker()
	r := NewRunner(proc, tr, "", 200*time.Millisecond, zap.NewNop())

	// two sources so the delay keeps the first job running
	_, err := r.RunSources(context.Background(), []Source{
		ByteSource{FileName: "a.jpg"},
		ByteSource{FileName: "b.jpg"},
	})
	require.NoError(t, err)

	<-proc.finished
	_, err = r.RunSources(context.Background(), []Source{ByteSource{FileName: "c.jpg"}})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestListLocalImagesMissingDirIsEmpty(t *testing.T) {
	r := NewRunner(newFakeProcessor(0), NewTracker(), filepath.Join(t.TempDir(), "absent"), 0, zap.NewNop())
	names, err := r.ListLocalImages()
	require.NoError(t, err)
	assert.Empty(t, names)
}
