// Package paginate implements incremental offset-based list loading for the
// mobile app core. One Paginator backs one scrollable list.
package paginate

import (
	"context"
	"errors"
	"sync"
	"time"
)

// LoadMoreThreshold is the trailing fraction of the list at which scrolling
// should trigger the next page.
const LoadMoreThreshold = 0.3

var (
	// ErrLoadInProgress is returned when a load-more is requested while
	// another load is still in flight.
	ErrLoadInProgress = errors.New("paginate: load already in progress")

	// ErrSuperseded is returned to a loader whose response arrived after a
	// newer reset; its page was discarded.
	ErrSuperseded = errors.New("paginate: load superseded by reset")
)

// FetchPage fetches one page of items starting at the given offset.
type FetchPage[T any] func(ctx context.Context, offset int) ([]T, error)

// Paginator accumulates pages of T. Reset loads replace the accumulated
// items, even with an empty result; load-more appends at offset len(items).
// A reset issued while a load is in flight supersedes it: the stale response
// is discarded when it lands.
type Paginator[T any] struct {
	fetch   FetchPage[T]
	timeout time.Duration

	mu      sync.Mutex
	items   []T
	gen     uint64
	loading bool
}

// Option configures a Paginator.
type Option[T any] func(*Paginator[T])

// WithTimeout bounds each fetch with the given timeout.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(p *Paginator[T]) {
		p.timeout = d
	}
}

// New creates a Paginator backed by the given fetch function.
func New[T any](fetch FetchPage[T], opts ...Option[T]) *Paginator[T] {
	p := &Paginator[T]{fetch: fetch}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches the next page and appends it, or, when reset is true, fetches
// from offset zero and replaces the accumulated items. On any error the
// accumulated items are left untouched.
func (p *Paginator[T]) Load(ctx context.Context, reset bool) error {
	p.mu.Lock()
	if p.loading && !reset {
		p.mu.Unlock()
		return ErrLoadInProgress
	}
	if reset {
		p.gen++
	}
	gen := p.gen
	offset := len(p.items)
	if reset {
		offset = 0
	}
	p.loading = true
	p.mu.Unlock()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	page, err := p.fetch(ctx, offset)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// A newer reset owns the loading flag now.
		return ErrSuperseded
	}
	p.loading = false
	if err != nil {
		return err
	}

	if reset {
		p.items = append([]T(nil), page...)
	} else {
		p.items = append(p.items, page...)
	}
	return nil
}

// Items returns a copy of the accumulated items.
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Len returns the number of accumulated items.
func (p *Paginator[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// ShouldLoadMore reports whether showing the item at visibleIndex puts the
// viewer within the trailing LoadMoreThreshold fraction of the list.
func ShouldLoadMore(visibleIndex, total int) bool {
	if total == 0 || visibleIndex < 0 {
		return false
	}
	remaining := total - 1 - visibleIndex
	return float64(remaining) <= LoadMoreThreshold*float64(total)
}
