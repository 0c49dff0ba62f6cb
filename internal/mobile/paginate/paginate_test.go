package paginate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPages(pages map[int][]string) FetchPage[string] {
	return func(_ context.Context, offset int) ([]string, error) {
		return pages[offset], nil
	}
}

func TestLoadResetReplacesItems(t *testing.T) {
	p := New(fixedPages(map[int][]string{
		0: {"a", "b"},
	}))

	require.NoError(t, p.Load(context.Background(), true))
	assert.Equal(t, []string{"a", "b"}, p.Items())

	// A second reset replaces, not appends.
	require.NoError(t, p.Load(context.Background(), true))
	assert.Equal(t, []string{"a", "b"}, p.Items())
}

func TestLoadResetWithEmptyResultClearsItems(t *testing.T) {
	calls := 0
	p := New(func(_ context.Context, offset int) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"a", "b"}, nil
		}
		return nil, nil
	})

	require.NoError(t, p.Load(context.Background(), true))
	require.Equal(t, 2, p.Len())

	// The backing data set shrank to nothing; the list must reflect that.
	require.NoError(t, p.Load(context.Background(), true))
	assert.Empty(t, p.Items())
}

func TestLoadMoreAppendsAtItemCountOffset(t *testing.T) {
	var offsets []int
	p := New(func(_ context.Context, offset int) ([]string, error) {
		offsets = append(offsets, offset)
		pages := map[int][]string{
			0: {"a", "b"},
			2: {"c"},
			3: nil,
		}
		return pages[offset], nil
	})

	require.NoError(t, p.Load(context.Background(), true))
	require.NoError(t, p.Load(context.Background(), false))
	require.NoError(t, p.Load(context.Background(), false))

	assert.Equal(t, []int{0, 2, 3}, offsets)
	assert.Equal(t, []string{"a", "b", "c"}, p.Items())
}

func TestLoadErrorLeavesItemsUntouched(t *testing.T) {
	fail := false
	p := New(func(_ context.Context, offset int) ([]string, error) {
		if fail {
			return nil, errors.New("backend unavailable")
		}
		return []string{"a"}, nil
	})

	require.NoError(t, p.Load(context.Background(), true))

	fail = true
	err := p.Load(context.Background(), false)
	assert.EqualError(t, err, "backend unavailable")
	assert.Equal(t, []string{"a"}, p.Items())

	err = p.Load(context.Background(), true)
	assert.EqualError(t, err, "backend unavailable")
	assert.Equal(t, []string{"a"}, p.Items())
}

func TestOverlappingLoadMoreRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := New(func(ctx context.Context, offset int) ([]string, error) {
		close(started)
		<-release
		return []string{"x"}, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- p.Load(context.Background(), false)
	}()

	<-started
	err := p.Load(context.Background(), false)
	assert.ErrorIs(t, err, ErrLoadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"x"}, p.Items())
}

func TestResetSupersedesInFlightLoad(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	p := New(func(ctx context.Context, offset int) ([]string, error) {
		if offset == 0 {
			return []string{"fresh"}, nil
		}
		close(slowStarted)
		<-slowRelease
		return []string{"stale"}, nil
	})

	// Seed so the load-more starts at a non-zero offset.
	p.mu.Lock()
	p.items = []string{"seed"}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- p.Load(context.Background(), false)
	}()
	<-slowStarted

	// Reset while the load-more is still in flight.
	require.NoError(t, p.Load(context.Background(), true))
	assert.Equal(t, []string{"fresh"}, p.Items())

	close(slowRelease)
	err := <-done
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, []string{"fresh"}, p.Items())
}

func TestLoadHonorsContextCancellation(t *testing.T) {
	p := New(func(ctx context.Context, offset int) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout[string](10*time.Millisecond))

	err := p.Load(context.Background(), true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, p.Items())

	// A later load still works; the loading flag was released.
	p2 := New(fixedPages(map[int][]string{0: {"a"}}))
	require.NoError(t, p2.Load(context.Background(), true))
}

func TestShouldLoadMore(t *testing.T) {
	tests := []struct {
		name         string
		visibleIndex int
		total        int
		want         bool
	}{
		{"empty list", 0, 0, false},
		{"negative index", -1, 10, false},
		{"top of long list", 0, 10, false},
		{"middle of long list", 5, 10, false},
		{"inside trailing threshold", 7, 10, true},
		{"last item", 9, 10, true},
		{"single item", 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldLoadMore(tt.visibleIndex, tt.total))
		})
	}
}
