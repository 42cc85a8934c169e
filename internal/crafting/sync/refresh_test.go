package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

type recordingTarget struct {
	mu      stdsync.Mutex
	loaded  []*crafting.Catalog
	changed chan struct{}
}

func newRecordingTarget() *recordingTarget {
	return &recordingTarget{changed: make(chan struct{}, 8)}
}

func (r *recordingTarget) Reload(c *crafting.Catalog) {
	r.mu.Lock()
	r.loaded = append(r.loaded, c)
	r.mu.Unlock()
	r.changed <- struct{}{}
}

func (r *recordingTarget) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loaded)
}

func catalogServer(t *testing.T, status *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		_, _ = io.WriteString(w, catalogJSON)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	s, _ := newSyncer(t)
	var status atomic.Int64
	status.Store(http.StatusOK)
	srv := catalogServer(t, &status)

	target := newRecordingTarget()
	var sources []string
	r := &Refresher{
		Syncer: s,
		Target: target,
		URL:    srv.URL,
		OnLoad: func(source string, _ *crafting.Catalog, _ error) { sources = append(sources, source) },
	}

	require.NoError(t, r.Refresh(ctx))
	assert.Equal(t, 1, target.count())

	status.Store(http.StatusBadGateway)
	assert.Error(t, r.Refresh(ctx))
	assert.Equal(t, 1, target.count())
	assert.Equal(t, []string{"url", "url"}, sources)

	empty := &Refresher{Syncer: s, Target: target}
	assert.ErrorIs(t, empty.Refresh(ctx), ErrNoSource)
}

func TestRefresherRun(t *testing.T) {
	s, _ := newSyncer(t)
	var status atomic.Int64
	status.Store(http.StatusOK)
	srv := catalogServer(t, &status)

	target := newRecordingTarget()
	r := &Refresher{Syncer: s, Target: target, URL: srv.URL}

	ctx, cancel := context.WithCancel(context.Background())
	trigger := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, trigger) }()

	trigger <- struct{}{}
	select {
	case <-target.changed:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not reload the catalog")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 1, target.count())
}
