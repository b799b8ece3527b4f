package notifyclient

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateError    State = "error"
)

// NavigationRef is the click-through target carried by a notification.
type NavigationRef struct {
	Type string
	ID   string
}

const defaultPollInterval = 60 * time.Second

// Poller keeps one user's feed fresh: it fetches on start, then on a fixed
// interval while visible. Fetches are single-flight; a tick that lands while
// a fetch is outstanding is skipped, never queued. Mutations are applied
// optimistically and reverted if the server rejects them, so the badge count
// is at most one poll interval behind server truth.
type Poller struct {
	client   *Client
	interval time.Duration
	onChange func()

	mu       sync.Mutex
	state    State
	items    []Notification
	unread   int64
	lastErr  error
	visible  bool
	inFlight bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewPoller(client *Client, interval time.Duration, onChange func()) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Poller{
		client:   client,
		interval: interval,
		onChange: onChange,
		state:    StateIdle,
		visible:  true,
		stopCh:   make(chan struct{}),
	}
}

// Start fetches once immediately and then loops until Stop.
func (p *Poller) Start() {
	go func() {
		p.Refresh()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				p.mu.Lock()
				visible := p.visible
				p.mu.Unlock()
				if visible {
					p.Refresh()
				}
			}
		}
	}()
}

// Stop halts the polling loop. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

// SetVisible reflects the page-visibility signal. Hidden tabs do not poll;
// becoming visible again triggers an immediate resync.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = visible
	p.mu.Unlock()

	if visible && !wasVisible {
		p.Refresh()
	}
}

// Refresh performs one fetch. Returns false when skipped because another
// fetch is already in flight.
func (p *Poller) Refresh() bool {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.state = StateLoading
	p.mu.Unlock()
	p.onChange()

	items, unread, err := p.client.Fetch(context.Background())

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.state = StateError
		p.lastErr = err
	} else {
		p.state = StateRendered
		p.lastErr = nil
		p.items = items
		p.unread = unread
	}
	p.mu.Unlock()
	p.onChange()
	return true
}

// Retry re-fetches after an error; it is the dropdown's retry affordance.
func (p *Poller) Retry() {
	p.Refresh()
}

// MarkAllRead optimistically flips every local item, then confirms with the
// server. On failure the local state is reverted and the error surfaced.
func (p *Poller) MarkAllRead() error {
	p.mu.Lock()
	snapshot := make([]Notification, len(p.items))
	copy(snapshot, p.items)
	prevUnread := p.unread

	now := time.Now()
	for i := range p.items {
		if !p.items[i].IsRead {
			p.items[i].IsRead = true
			readAt := now
			p.items[i].ReadAt = &readAt
		}
	}
	p.unread = 0
	p.mu.Unlock()
	p.onChange()

	if _, err := p.client.MarkAllRead(context.Background()); err != nil {
		p.mu.Lock()
		p.items = snapshot
		p.unread = prevUnread
		p.lastErr = err
		p.state = StateError
		p.mu.Unlock()
		p.onChange()
		return err
	}
	return nil
}

// MarkItemRead marks one item read and returns its click-through target, if
// any. The local flip is reverted when the server rejects the mark, except
// for a 404 (the row is gone server-side, so "read" locally is harmless and
// the next poll reconciles).
func (p *Poller) MarkItemRead(id uint64) (NavigationRef, error) {
	p.mu.Lock()
	var nav NavigationRef
	idx := -1
	for i := range p.items {
		if p.items[i].ID == id {
			idx = i
			nav = NavigationRef{Type: p.items[i].RelatedType, ID: p.items[i].RelatedID}
			break
		}
	}

	flipped := false
	if idx >= 0 && !p.items[idx].IsRead {
		p.items[idx].IsRead = true
		readAt := time.Now()
		p.items[idx].ReadAt = &readAt
		p.unread--
		flipped = true
	}
	p.mu.Unlock()
	p.onChange()

	err := p.client.MarkRead(context.Background(), id)
	if err != nil && err != ErrNotFound {
		p.mu.Lock()
		if flipped && idx < len(p.items) && p.items[idx].ID == id {
			p.items[idx].IsRead = false
			p.items[idx].ReadAt = nil
			p.unread++
		}
		p.lastErr = err
		p.mu.Unlock()
		p.onChange()
		return nav, err
	}
	return nav, nil
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Items returns a copy of the current feed.
func (p *Poller) Items() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]Notification, len(p.items))
	copy(items, p.items)
	return items
}

// UnreadCount is the badge value.
func (p *Poller) UnreadCount() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}
