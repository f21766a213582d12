// Package api provides the HTTP API for the application
package api

import (
	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/logger"
	phttp "modelwatch/internal/platform/net/http"
	"modelwatch/internal/platform/net/middleware"
	"modelwatch/internal/platform/store"

	"modelwatch/internal/modkit"
	"modelwatch/internal/modkit/httpkit"
	"modelwatch/internal/modkit/module"
	"modelwatch/internal/modkit/swaggerkit"

	"modelwatch/internal/core/sources"
	"modelwatch/internal/services/api/artifacts"
	changesmod "modelwatch/internal/services/api/changes/module"
	metamod "modelwatch/internal/services/api/meta/module"
	recordsmod "modelwatch/internal/services/api/records/module"

	// Worker scrape module (owns the snapshot and archive ports)
	scrapemod "modelwatch/internal/services/scrape/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// Construct the WORKER scrape module first and extract its read ports
	scrape := scrapemod.New(deps)
	ports := module.MustPortsOf[scrapemod.Ports](scrape)

	// Inject the worker's stores into the read-side API modules
	records := recordsmod.New(
		deps,
		modkit.WithPorts(recordsmod.Ports{
			Store: ports.Snapshots,
		}),
	)
	changes := changesmod.New(
		deps,
		modkit.WithPorts(changesmod.Ports{
			Reader: ports.Changes,
		}),
		// change history fans out to the archive backend; cap its
		// concurrency tighter than the snapshot reads
		modkit.WithMiddlewares(middleware.Throttle(8)),
	)

	mods := []module.Module{
		metamod.New(deps),
		scrape,  // worker, no routes; included so its ports are registered
		records, // API module that reads the worker's snapshot store
		changes, // API module that reads the worker's change archive
	}

	reg, err := sources.Load()
	if err != nil {
		panic(err)
	}
	scrapeOpts := scrapemod.FromConfig(deps.Cfg)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler + published artifacts at the root
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
		artifacts.Mount(r, artifacts.Options{
			Dir:      scrapeOpts.OutDir,
			FeedFile: scrapeOpts.FeedFile,
			Registry: reg,
		})

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})
}
