package store_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type record struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type storeSuite struct {
	suite.Suite

	s *store.Store
}

// entry point to run the tests in the suite
func TestStoreSuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(storeSuite))
}

// before each test
func (suite *storeSuite) SetupTest() {
	s, err := store.New(suite.T().TempDir(), store.DefaultLockTimeout)
	suite.NoError(err)

	suite.s = s
}

func (suite *storeSuite) TestNew() {
	tests := []struct {
		name        string
		dir         string
		lockTimeout time.Duration
		wantError   string
	}{
		{
			name:        "valid dir: ok",
			dir:         suite.T().TempDir(),
			lockTimeout: time.Second,
		},
		{
			name:      "empty dir: error",
			dir:       "",
			wantError: "dir is empty",
		},
		{
			name: "zero timeout falls back to default: ok",
			dir:  suite.T().TempDir(),
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			s, err := store.New(tt.dir, tt.lockTimeout)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.dir, s.Dir())
		})
	}
}

func (suite *storeSuite) TestReadAllEmptyTable() {
	t := suite.T()
	ctx := t.Context()

	records, err := store.ReadAll[record](ctx, suite.s, "empty")
	require.NoError(t, err)
	assert.Empty(t, records)

	// the table file materializes on first read
	_, err = os.Stat(filepath.Join(suite.s.Dir(), "empty.json"))
	assert.NoError(t, err)
}

func (suite *storeSuite) TestReplaceAllRoundtrip() {
	t := suite.T()
	ctx := t.Context()

	want := []record{{ID: "a", Count: 1}, {ID: "b", Count: 2}}

	err := store.ReplaceAll(ctx, suite.s, "records", want)
	require.NoError(t, err)

	got, err := store.ReadAll[record](ctx, suite.s, "records")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func (suite *storeSuite) TestWithLockFailureLeavesTableUntouched() {
	t := suite.T()
	ctx := t.Context()

	original := []record{{ID: "a", Count: 1}}
	require.NoError(t, store.ReplaceAll(ctx, suite.s, "records", original))

	boom := errors.New("boom")

	_, err := store.WithLock(ctx, suite.s, "records", func(records []record) ([]record, struct{}, error) {
		records[0].Count = 99
		return records, struct{}{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.ReadAll[record](ctx, suite.s, "records")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func (suite *storeSuite) TestWithLockResult() {
	t := suite.T()
	ctx := t.Context()

	inserted, err := store.WithLock(ctx, suite.s, "records", func(records []record) ([]record, record, error) {
		r := record{ID: "a", Count: 1}
		return append(records, r), r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, record{ID: "a", Count: 1}, inserted)

	got, err := store.ReadAll[record](ctx, suite.s, "records")
	require.NoError(t, err)
	assert.Equal(t, []record{inserted}, got)
}

func (suite *storeSuite) TestCorruptTable() {
	t := suite.T()
	ctx := t.Context()

	path := filepath.Join(suite.s.Dir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.ReadAll[record](ctx, suite.s, "records")

	var parseErr *store.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "records", parseErr.Table)

	// Reset recovers the table
	require.NoError(t, suite.s.Reset(ctx, "records"))

	records, err := store.ReadAll[record](ctx, suite.s, "records")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func (suite *storeSuite) TestLockTimeout() {
	t := suite.T()
	ctx := t.Context()

	s, err := store.New(t.TempDir(), 50*time.Millisecond)
	require.NoError(t, err)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = store.WithLock(ctx, s, "records", func(records []record) ([]record, struct{}, error) {
			close(holding)
			<-release
			return records, struct{}{}, nil
		})
	}()

	<-holding

	_, err = store.ReadAll[record](ctx, s, "records")
	assert.ErrorIs(t, err, store.ErrBusy)

	close(release)
	<-done
}

func (suite *storeSuite) TestConcurrentIncrementsNoLostUpdates() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, store.ReplaceAll(ctx, suite.s, "counters", []record{{ID: "c", Count: 0}}))

	const workers = 20

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, errs[i] = store.WithLock(ctx, suite.s, "counters", func(records []record) ([]record, struct{}, error) {
				records[0].Count++
				return records, struct{}{}, nil
			})
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, fmt.Sprintf("worker %d", i))
	}

	got, err := store.ReadAll[record](ctx, suite.s, "counters")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, workers, got[0].Count)
}

func (suite *storeSuite) TestDisjointTablesDoNotContend() {
	t := suite.T()
	ctx := t.Context()

	s, err := store.New(t.TempDir(), 100*time.Millisecond)
	require.NoError(t, err)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = store.WithLock(ctx, s, "orders", func(records []record) ([]record, struct{}, error) {
			close(holding)
			<-release
			return records, struct{}{}, nil
		})
	}()

	<-holding

	// another table acquires immediately while orders is held
	_, err = store.ReadAll[record](ctx, s, "invoices")
	assert.NoError(t, err)

	close(release)
	<-done
}
