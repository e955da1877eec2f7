package task

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyme/ai-server/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestStoreGetUnknownKey(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())

	store.Create("42", StatusPending)

	record, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, "42", record.Key)
	assert.Equal(t, StatusPending, record.Status)
	assert.Nil(t, record.Result)
	assert.Nil(t, record.Error)
}

func TestStoreUpdateToCompleted(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())
	store.Create("42", StatusPending)

	result := domain.ShortTextResult()
	store.Update("42", StatusProcessing, nil, nil)
	store.Update("42", StatusCompleted, result, nil)

	record, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, result, record.Result)
	assert.Nil(t, record.Error)
}

func TestStoreTerminalRecordsAreImmutable(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())
	store.Create("42", StatusPending)

	store.Update("42", StatusFailed, nil, &Error{
		Code:    domain.CodeLLMProviderError,
		Message: "analysis failed",
	})
	store.Update("42", StatusCompleted, domain.ShortTextResult(), nil)

	record, ok := store.Get("42")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, record.Status)
	assert.Nil(t, record.Result)
	require.NotNil(t, record.Error)
	assert.Equal(t, domain.CodeLLMProviderError, record.Error.Code)
}

func TestStoreUpdateUnknownKeyIsNoop(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())

	store.Update("missing", StatusCompleted, "result", nil)

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestStoreSweepEvictsOnlyExpiredTerminalRecords(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())

	store.Create("done", StatusPending)
	store.Update("done", StatusCompleted, "result", nil)

	store.Create("running", StatusProcessing)

	// Not yet expired: nothing to evict.
	assert.Equal(t, 0, store.sweep(time.Now()))
	assert.Equal(t, 2, store.Len())

	// Past retention: only the terminal record goes.
	evicted := store.sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, evicted)

	_, ok := store.Get("done")
	assert.False(t, ok)
	_, ok = store.Get("running")
	assert.True(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(time.Minute, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("task-%d", n)
			store.Create(key, StatusPending)
			store.Update(key, StatusProcessing, nil, nil)
			store.Update(key, StatusCompleted, n, nil)
		}(i)
	}

	// Concurrent readers must never observe a half-written record.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			record, ok := store.Get(fmt.Sprintf("task-%d", n))
			if !ok {
				return
			}
			if record.Status == StatusCompleted {
				assert.NotNil(t, record.Result)
			} else {
				assert.Nil(t, record.Error)
			}
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 50, store.Len())
}

func TestStoreJanitorLifecycle(t *testing.T) {
	store := NewStore(time.Millisecond, setupTestLogger())
	store.sweepInterval = 5 * time.Millisecond
	store.Start()
	defer store.Stop()

	store.Create("done", StatusPending)
	store.Update("done", StatusFailed, nil, &Error{Code: domain.CodeInternalError, Message: "x"})

	assert.Eventually(t, func() bool {
		_, ok := store.Get("done")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
