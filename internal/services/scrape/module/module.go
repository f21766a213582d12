// Package module wires the scrape runner from config and shared deps
package module

import (
	"modelwatch/internal/modkit"
	"modelwatch/internal/modkit/httpkit"

	"modelwatch/internal/adapters/fetch"
	"modelwatch/internal/adapters/rss"
	"modelwatch/internal/adapters/tables"
	"modelwatch/internal/core/sources"

	archdomain "modelwatch/internal/services/archive/domain"
	archrepo "modelwatch/internal/services/archive/repo"
	archsvc "modelwatch/internal/services/archive/service"
	"modelwatch/internal/services/scrape/domain"
	"modelwatch/internal/services/scrape/service"
	snapfile "modelwatch/internal/services/snapshot/file"
	snaprepo "modelwatch/internal/services/snapshot/repo"
	snapsvc "modelwatch/internal/services/snapshot/service"
)

// Ports defines the scrape module ports
type Ports struct {
	Runner domain.RunnerPort

	// Snapshots reads the persisted per-source record sets
	Snapshots domain.SnapshotStore

	// Changes reads the archived change events; disabled without ClickHouse
	Changes archdomain.ReaderPort
}

// Module implements the scrape module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the scrape module. It wires the fetcher, the table
// extractor, the snapshot backend picked by config, and the optional
// ClickHouse archive; no routes are mounted
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	reg, err := sources.Load()
	if err != nil {
		panic(err)
	}

	var snaps domain.SnapshotStore
	switch opts.SnapshotBackend {
	case "pg":
		snaps = snapsvc.New(deps.PG, snaprepo.NewPG())
	default:
		snaps = snapfile.New(opts.DataDir)
	}

	archive := archsvc.New(nil)
	if deps.CH != nil {
		archive = archsvc.New(archrepo.NewCH(deps.CH))
	}

	client := fetch.NewClient(fetch.Options{
		UserAgent:  opts.UserAgent,
		Timeout:    opts.FetchTimeout,
		MaxRetries: opts.MaxRetries,
		RetryBase:  opts.RetryBase,
	})

	svc := service.New(
		reg,
		client,
		domain.ExtractorFunc(tables.Extract),
		snaps,
		archive,
		service.Config{
			OutDir:     opts.OutDir,
			FeedFile:   opts.FeedFile,
			MaxEntries: opts.MaxEntries,
			Channel: rss.Channel{
				Title:       opts.FeedTitle,
				Link:        opts.FeedLink,
				Description: opts.FeedDesc,
				Language:    opts.FeedLang,
			},
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Snapshots: snaps, Changes: archive}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "scrape" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op as scrape has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
