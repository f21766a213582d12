package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"modelwatch/internal/core/version"
	"modelwatch/internal/modkit"
	"modelwatch/internal/modkit/module"
	"modelwatch/internal/modkit/repokit"
	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/platform/store"

	scrapemod "modelwatch/internal/services/scrape/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	// optional .env for local runs
	_ = godotenv.Load()

	root := config.New()
	pgCfg := root.Prefix("MODELWATCH_PGSQL_")      // snapshot backend, optional
	chCfg := root.Prefix("MODELWATCH_CLICKHOUSE_") // change archive, optional

	// bring up logging early, naming this binary; LOG_* env still wins
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = "modelwatch-scrape"
	}
	lopt.StaticFields = map[string]string{"version": version.Info().Version}
	logger.Init(lopt)
	l := logger.Get()

	// the pg snapshot backend cannot run without its DSN; fail here rather
	// than deep inside module wiring
	if root.Prefix("MODELWATCH_SCRAPE_").MayEnum("SNAPSHOT_BACKEND", "file", "file", "pg") == "pg" {
		pgCfg.Require("DBURL")
	}

	// open the platform store; a backend without a DBURL stays nil.
	// file snapshots plus no archive is the zero-infrastructure default
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(context.Background(), store.Config{
		AppName: "modelwatch",
		PG: store.PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "modelwatch",
			ClientTag:  "scrape",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// batch run: an unreachable configured backend should fail here, not mid-scrape
	repokit.MustGuard(context.Background(), st)

	var (
		fOnly    = flag.String("only", "", "comma separated source names to scrape (default all)")
		fOutDir  = flag.String("outdir", "", "directory for feed.xml and CSV exports (default public)")
		fDataDir = flag.String("datadir", "", "directory for file snapshots (default data)")
	)
	flag.Parse()

	// Export as env so the module reads them via FromConfig
	mustSetEnv("MODELWATCH_SCRAPE_OUT_DIR", *fOutDir)
	mustSetEnv("MODELWATCH_SCRAPE_DATA_DIR", *fDataDir)

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	mod := scrapemod.New(deps)
	module.Register(mod.Name(), mod.Ports())

	var only []string
	for _, name := range strings.Split(*fOnly, ",") {
		if name = strings.TrimSpace(name); name != "" {
			only = append(only, name)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// resolve the runner back through the registry the module was
	// registered in, the same lookup path the API uses
	ports, ok := module.PortsAs[scrapemod.Ports](mod.Name())
	if !ok {
		l.Panic().Str("module", mod.Name()).Msg("scrape ports not registered")
	}
	report, err := ports.Runner.Run(ctx, only)
	if err != nil {
		l.Fatal().Err(err).Msg("scrape failed")
	}
	if len(report.Failures) > 0 {
		// per-source errors were already logged; exit nonzero so schedulers notice
		l.Fatal().Int("failed", len(report.Failures)).Str("run_id", report.RunID).Msg("scrape finished with failures")
	}
}
