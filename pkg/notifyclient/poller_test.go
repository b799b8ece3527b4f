package notifyclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeed is a scriptable feed endpoint: it serves the configured items and
// unread count, can be told to fail, and counts requests per route.
type fakeFeed struct {
	mu            sync.Mutex
	notifications []Notification
	unread        int64
	failFetch     bool
	failMutations bool
	fetches       int64
	markAlls      int64
}

func (f *fakeFeed) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			atomic.AddInt64(&f.fetches, 1)
			if f.failFetch {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Internal server error"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"notifications": f.notifications,
					"count":         len(f.notifications),
					"unread_count":  f.unread,
				},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/notifications/read-all":
			atomic.AddInt64(&f.markAlls, 1)
			if f.failMutations {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Internal server error"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]int64{"updated": f.unread},
			})
		case r.Method == http.MethodPut:
			if f.failMutations {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Internal server error"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		default:
			http.NotFound(w, r)
		}
	}))
}

func twoItemFeed() []Notification {
	return []Notification{
		{ID: 2, Type: "grade_assigned", Message: "graded", RelatedType: "assignment", RelatedID: "assignment-5"},
		{ID: 1, Type: "course_enrollment", Message: "enrolled", IsRead: true},
	}
}

func TestPoller_RefreshRenders(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	require.True(t, p.Refresh())

	assert.Equal(t, StateRendered, p.State())
	assert.NoError(t, p.Err())
	assert.Len(t, p.Items(), 2)
	assert.Equal(t, int64(1), p.UnreadCount())
}

func TestPoller_InitialStateIsIdle(t *testing.T) {
	p := NewPoller(NewClient("http://unused", "tok"), time.Hour, nil)
	assert.Equal(t, StateIdle, p.State())
	assert.Empty(t, p.Items())
}

func TestPoller_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"notifications": []Notification{}, "count": 0, "unread_count": 0},
		})
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)

	done := make(chan bool)
	go func() { done <- p.Refresh() }()
	<-entered

	// A refresh that lands mid-fetch is skipped, not queued.
	assert.False(t, p.Refresh())

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, StateRendered, p.State())
}

func TestPoller_ErrorStateAndRetry(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1, failFetch: true}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.Refresh()

	assert.Equal(t, StateError, p.State())
	assert.Error(t, p.Err())

	feed.mu.Lock()
	feed.failFetch = false
	feed.mu.Unlock()

	p.Retry()
	assert.Equal(t, StateRendered, p.State())
	assert.NoError(t, p.Err())
	assert.Len(t, p.Items(), 2)
}

func TestPoller_HiddenTabDoesNotPoll(t *testing.T) {
	feed := &fakeFeed{unread: 0}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), 10*time.Millisecond, nil)
	p.SetVisible(false)
	p.Start()
	defer p.Stop()

	// The initial fetch runs regardless; ticks while hidden must not.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&feed.fetches))
}

func TestPoller_BecomingVisibleResyncs(t *testing.T) {
	feed := &fakeFeed{unread: 0}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.SetVisible(false)

	p.SetVisible(true)
	assert.Equal(t, int64(1), atomic.LoadInt64(&feed.fetches))
	assert.Equal(t, StateRendered, p.State())
}

func TestPoller_StopHaltsLoop(t *testing.T) {
	feed := &fakeFeed{unread: 0}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), 10*time.Millisecond, nil)
	p.Start()
	time.Sleep(35 * time.Millisecond)
	p.Stop()
	p.Stop() // second stop is a no-op

	stopped := atomic.LoadInt64(&feed.fetches)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt64(&feed.fetches))
}

func TestPoller_MarkAllRead_Optimistic(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1}
	srv := feed.server(t)
	defer srv.Close()

	var changes int64
	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, func() {
		atomic.AddInt64(&changes, 1)
	})
	p.Refresh()

	require.NoError(t, p.MarkAllRead())

	assert.Equal(t, int64(0), p.UnreadCount())
	for _, item := range p.Items() {
		assert.True(t, item.IsRead)
	}
	assert.Greater(t, atomic.LoadInt64(&changes), int64(0))
}

func TestPoller_MarkAllRead_RevertsOnFailure(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.Refresh()

	feed.mu.Lock()
	feed.failMutations = true
	feed.mu.Unlock()

	err := p.MarkAllRead()

	require.Error(t, err)
	assert.Equal(t, int64(1), p.UnreadCount())
	items := p.Items()
	assert.False(t, items[0].IsRead)
	assert.True(t, items[1].IsRead)
	assert.Equal(t, StateError, p.State())
}

func TestPoller_MarkItemRead_ReturnsNavigation(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.Refresh()

	nav, err := p.MarkItemRead(2)

	require.NoError(t, err)
	assert.Equal(t, NavigationRef{Type: "assignment", ID: "assignment-5"}, nav)
	assert.Equal(t, int64(0), p.UnreadCount())
	assert.True(t, p.Items()[0].IsRead)
}

func TestPoller_MarkItemRead_RevertsOnServerError(t *testing.T) {
	feed := &fakeFeed{notifications: twoItemFeed(), unread: 1, failMutations: true}
	srv := feed.server(t)
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.Refresh()

	_, err := p.MarkItemRead(2)

	require.Error(t, err)
	assert.Equal(t, int64(1), p.UnreadCount())
	assert.False(t, p.Items()[0].IsRead)
}

func TestPoller_MarkItemRead_KeepsLocalFlipOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"notifications": twoItemFeed(),
					"count":         2,
					"unread_count":  1,
				},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Notification not found"})
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL, "tok"), time.Hour, nil)
	p.Refresh()

	// The row is gone server-side; the local flip stands until the next poll.
	_, err := p.MarkItemRead(2)

	require.NoError(t, err)
	assert.Equal(t, int64(0), p.UnreadCount())
	assert.True(t, p.Items()[0].IsRead)
}
