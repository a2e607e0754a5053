package schedule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/models"
)

type MockLoader struct{ mock.Mock }

func (m *MockLoader) Load(ctx context.Context) ([]models.ScheduleEntry, []models.ChecklistReading, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ScheduleEntry), args.Get(1).([]models.ChecklistReading), args.Error(2)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) ListStartedBetween(ctx context.Context, from, to time.Time) ([]models.ChecklistReading, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]models.ChecklistReading), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, report models.ShiftReport) error {
	return m.Called(ctx, report).Error(0)
}

var wednesday = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestRebuilderRunUsesLoaderReadings(t *testing.T) {
	loader := new(MockLoader)
	pub := new(MockPublisher)
	loader.On("Load", mock.Anything).Return(
		[]models.ScheduleEntry{entry("L1", "P1", "T2", time.Wednesday)},
		[]models.ChecklistReading{},
		nil,
	)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(r models.ShiftReport) bool {
		return len(r["T2"]) == 1
	})).Return(nil)

	b := NewRebuilder(loader, nil, pub, zap.NewNop())
	b.now = func() time.Time { return wednesday }

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report["T2"], 1)
	pub.AssertExpectations(t)
}

func TestRebuilderRunPrefersStore(t *testing.T) {
	loader := new(MockLoader)
	store := new(MockStore)
	pub := new(MockPublisher)

	loader.On("Load", mock.Anything).Return(
		[]models.ScheduleEntry{entry("L1", "P1", "T2", time.Wednesday)},
		[]models.ChecklistReading{},
		nil,
	)
	from := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	store.On("ListStartedBetween", mock.Anything, from, to).Return(
		[]models.ChecklistReading{{QRCode: "L1", StartedAt: ts(14, 9, 0)}}, nil,
	)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	b := NewRebuilder(loader, store, pub, zap.NewNop())
	b.now = func() time.Time { return wednesday }

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report["T2"])
	store.AssertExpectations(t)
}

func TestRebuilderRunErrors(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything).Return([]models.ScheduleEntry(nil), []models.ChecklistReading(nil), errors.New("locked"))

	_, err := NewRebuilder(loader, nil, new(MockPublisher), zap.NewNop()).Run(context.Background())
	assert.ErrorContains(t, err, "load schedule")

	okLoader := new(MockLoader)
	okLoader.On("Load", mock.Anything).Return([]models.ScheduleEntry{}, []models.ChecklistReading{}, nil)
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	report, err := NewRebuilder(okLoader, nil, pub, zap.NewNop()).Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.NotNil(t, report)
}

func TestRebuilderLoopStopsWithContext(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything).Return([]models.ScheduleEntry{}, []models.ChecklistReading{}, nil)
	var runs int32
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		atomic.AddInt32(&runs, 1)
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewRebuilder(loader, nil, pub, zap.NewNop()).Loop(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestWatchCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cronograma_lc.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	require.NoError(t, Watch(ctx, path, 100*time.Millisecond, zap.NewNop(), func() {
		atomic.AddInt32(&calls, 1)
	}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	assert.Never(t, func() bool { return atomic.LoadInt32(&calls) > 0 }, 300*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 3*time.Second, 20*time.Millisecond)
}
