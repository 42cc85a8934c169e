// Crafting orders MCP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rsned/crafting-orders-server/internal/config"
	"github.com/rsned/crafting-orders-server/internal/crafting/db"
	"github.com/rsned/crafting-orders-server/internal/crafting/engine"
	"github.com/rsned/crafting-orders-server/internal/crafting/mcp"
	"github.com/rsned/crafting-orders-server/internal/crafting/sync"
	"github.com/rsned/crafting-orders-server/internal/logger"
	"github.com/rsned/crafting-orders-server/internal/metrics"
	"github.com/rsned/crafting-orders-server/internal/server"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbPath := flag.String("db", cfg.DBPath, "Path to SQLite database")
	importFile := flag.String("import", "", "Import a catalog JSON file and exit (add 'serve' to keep running)")
	fetchURL := flag.String("fetch", cfg.APIURL, "Catalog URL fetched at startup")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Environment = cfg.Environment
	logCfg.Version = version
	if *verbose {
		logCfg.Level = "debug"
	}
	// stdout carries the tool protocol.
	log := logger.Init(logCfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenAndInit(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = database.Close() }()

	syncer := sync.NewSyncer(database, log)

	var catalog *crafting.Catalog
	if *importFile != "" {
		catalog, err = syncer.ImportCatalogFromFile(ctx, *importFile)
		recordCatalog("file", catalog, err)
		if err != nil {
			return fmt.Errorf("importing catalog: %w", err)
		}
		log.Info("catalog imported", "file", *importFile, "recipes", len(catalog.Recipes))
		if flag.Arg(0) != "serve" {
			return nil
		}
	}
	catalog = loadCatalog(ctx, log, syncer, catalog, cfg.CatalogFile, *fetchURL)

	eng, err := engine.New(catalog, engine.Options{
		BatchCapacity: cfg.BatchCapacity,
		MaxDepth:      cfg.MaxDepth,
		OreFallback:   cfg.OreFallback,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	refreshFile := cfg.CatalogFile
	if *importFile != "" {
		refreshFile = *importFile
	}
	refresher := &sync.Refresher{
		Syncer:   syncer,
		Target:   eng,
		File:     refreshFile,
		URL:      *fetchURL,
		Interval: cfg.CatalogRefresh,
		OnLoad:   recordCatalog,
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	trigger := make(chan struct{})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				log.Info("SIGHUP received, reloading catalog")
				select {
				case trigger <- struct{}{}:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})
	g.Go(func() error { return refresher.Run(gctx, trigger) })

	mcpServer := mcp.NewServer(eng, log)
	g.Go(func() error {
		log.Info("starting MCP server", "db", *dbPath)
		if err := mcpServer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		// stdin closed: the host is gone, bring the rest down too.
		stop()
		return nil
	})

	if cfg.HTTPAddr != "" {
		httpServer := server.NewServer(cfg.HTTPAddr, database, eng, log)
		g.Go(httpServer.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Stop(shutdownCtx)
		})
	}

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// loadCatalog picks the startup catalog: one just imported from the command
// line, then the configured file, then the remote URL, then the last stored
// snapshot. A nil result leaves the engine unloaded.
func loadCatalog(ctx context.Context, log *slog.Logger, syncer *sync.Syncer, imported *crafting.Catalog, file, url string) *crafting.Catalog {
	if imported != nil {
		return imported
	}
	if file != "" {
		c, err := syncer.ImportCatalogFromFile(ctx, file)
		recordCatalog("file", c, err)
		if err == nil {
			return c
		}
		log.Warn("catalog file import failed", "file", file, "error", err)
	}

	if url != "" {
		c, err := syncer.ImportCatalogFromURL(ctx, url)
		recordCatalog("url", c, err)
		if err == nil {
			return c
		}
		log.Warn("catalog fetch failed, using stored snapshot", "url", url, "error", err)
	}

	c, err := syncer.LoadStored(ctx)
	recordCatalog("store", c, err)
	if err != nil {
		log.Warn("no catalog available", "error", err)
		return nil
	}
	return c
}

func recordCatalog(source string, c *crafting.Catalog, err error) {
	if err != nil || c == nil {
		metrics.RecordCatalog(source, 0, 0, err)
		return
	}
	metrics.RecordCatalog(source, len(c.Recipes), len(c.Prices.Categories), nil)
}
