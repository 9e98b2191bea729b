package table

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/masomo-admin/core/query"
)

// Event is a discrete user input affecting a list screen.
type Event interface {
	isEvent()
}

type (
	SearchChanged struct {
		Text string
	}

	CategoricalChanged struct {
		Field      string
		Constraint query.Constraint
	}

	PageChanged struct {
		Index int
	}

	PageSizeChanged struct {
		Size int
	}

	SortChanged struct {
		Sort []query.SortSpec
	}

	RefreshRequested struct{}
)

func (SearchChanged) isEvent()      {}
func (CategoricalChanged) isEvent() {}
func (PageChanged) isEvent()        {}
func (PageSizeChanged) isEvent()    {}
func (SortChanged) isEvent()        {}
func (RefreshRequested) isEvent()   {}

// Apply handles one event and waits for the resulting refresh.
func (c *Controller[R]) Apply(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case SearchChanged:
		return c.SetSearchText(ctx, ev.Text)
	case CategoricalChanged:
		return c.SetCategorical(ctx, ev.Field, ev.Constraint)
	case PageChanged:
		return c.SetPage(ctx, ev.Index)
	case PageSizeChanged:
		return c.SetPageSize(ctx, ev.Size)
	case SortChanged:
		return c.SetSort(ctx, ev.Sort...)
	case RefreshRequested:
		return c.Refresh(ctx)
	}
	return nil
}

// Run consumes events one at a time until the channel closes or ctx is done.
// Input is recorded immediately; the refresh it triggers runs in the background so a slow
// fetch never holds back later input. Run returns once every refresh it started has settled.
func (c *Controller[R]) Run(ctx context.Context, events <-chan Event) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !c.record(ev) {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.Refresh(ctx) // failures land in the state
			}()
		}
	}
}

// Batch records events in order and issues one refresh for all of them.
// A PageChanged should come after the filter changes, which reset the page.
func (c *Controller[R]) Batch(ctx context.Context, events ...Event) error {
	var refresh bool
	for _, ev := range events {
		if c.record(ev) {
			refresh = true
		}
	}
	if !refresh {
		return nil
	}
	return c.Refresh(ctx)
}

// record applies an event to the held state without fetching.
// It reports whether a refresh is needed.
func (c *Controller[R]) record(ev Event) bool {
	switch ev := ev.(type) {
	case SearchChanged:
		c.recordSearch(ev.Text)
	case CategoricalChanged:
		c.recordCategorical(ev.Field, ev.Constraint)
	case PageChanged:
		c.mu.Lock()
		index := ev.Index
		if index < 0 {
			index = 0
		}
		if c.totalKnown {
			if last := lastPage(c.state.Total, c.page.PageSize); index > last {
				index = last
			}
		}
		c.page.PageIndex = index
		c.mu.Unlock()
	case PageSizeChanged:
		if ev.Size <= 0 {
			return false
		}
		c.mu.Lock()
		c.page.PageIndex = c.page.Offset() / ev.Size
		c.page.PageSize = ev.Size
		c.mu.Unlock()
	case SortChanged:
		c.mu.Lock()
		c.sort = append([]query.SortSpec(nil), ev.Sort...)
		c.mu.Unlock()
	case RefreshRequested:
	default:
		return false
	}
	return true
}

// Debounce is an optional stage callers may put in front of Run: consecutive SearchChanged
// events closer than d apart collapse into the last one. Other events pass through at once,
// after any pending search.
func Debounce(ctx context.Context, in <-chan Event, d time.Duration) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		var (
			pending *SearchChanged
			timer   *time.Timer
			fire    <-chan time.Time
		)
		stop := func() {
			if timer != nil {
				timer.Stop()
			}
			fire = nil
		}
		emit := func(ev Event) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		flush := func() bool {
			stop()
			if pending == nil {
				return true
			}
			ev := *pending
			pending = nil
			return emit(ev)
		}

		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case <-fire:
				fire = nil
				if !flush() {
					return
				}
			case ev, ok := <-in:
				if !ok {
					flush()
					return
				}
				if search, isSearch := ev.(SearchChanged); isSearch {
					pending = &search
					stop()
					timer = time.NewTimer(d)
					fire = timer.C
					continue
				}
				if !flush() || !emit(ev) {
					return
				}
			}
		}
	}()
	return out
}
