package sync

import (
	"context"
	"errors"
	"time"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// ErrNoSource is returned by Refresh when neither a file nor a URL is set.
var ErrNoSource = errors.New("no catalog source configured")

// Reloader receives a freshly imported catalog.
type Reloader interface {
	Reload(catalog *crafting.Catalog)
}

// Refresher re-imports the catalog and hands it to a Reloader.
type Refresher struct {
	Syncer   *Syncer
	Target   Reloader
	File     string
	URL      string
	Interval time.Duration

	// OnLoad, when set, observes every attempt.
	OnLoad func(source string, c *crafting.Catalog, err error)
}

// Refresh imports from the file when one is set, otherwise from the URL,
// and reloads the target on success. A failed import leaves the target
// untouched.
func (r *Refresher) Refresh(ctx context.Context) error {
	var (
		c      *crafting.Catalog
		err    error
		source string
	)
	switch {
	case r.File != "":
		source = "file"
		c, err = r.Syncer.ImportCatalogFromFile(ctx, r.File)
	case r.URL != "":
		source = "url"
		c, err = r.Syncer.ImportCatalogFromURL(ctx, r.URL)
	default:
		return ErrNoSource
	}
	if r.OnLoad != nil {
		r.OnLoad(source, c, err)
	}
	if err != nil {
		return err
	}

	r.Target.Reload(c)
	r.Syncer.logger.Info("catalog reloaded", "source", source, "recipes", len(c.Recipes))
	return nil
}

// Run refreshes on every trigger and, when Interval is positive, on every
// tick, until ctx is done. Failures are logged and the loop continues.
func (r *Refresher) Run(ctx context.Context, trigger <-chan struct{}) error {
	var tick <-chan time.Time
	if r.Interval > 0 {
		t := time.NewTicker(r.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
		case <-tick:
		}
		if err := r.Refresh(ctx); err != nil {
			r.Syncer.logger.Warn("catalog refresh failed", "error", err)
		}
	}
}
