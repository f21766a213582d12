// @title         Modelwatch API
// @version       0.1.0
// @description   Read only endpoints over tracked model retirement and deprecation data

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"modelwatch/internal/core/version"
	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/logger"
	phttp "modelwatch/internal/platform/net/http"
	"modelwatch/internal/platform/store"

	"modelwatch/internal/services/api"
)

func main() {
	// optional .env for local runs
	_ = godotenv.Load()

	root := config.New()
	mwCfg := root.Prefix("MODELWATCH_") // server reads MODELWATCH_API_PORT

	pgCfg := root.Prefix("MODELWATCH_PGSQL_")      // snapshot backend, optional
	chCfg := root.Prefix("MODELWATCH_CLICKHOUSE_") // change archive, optional

	// bring up logging early, naming this binary; LOG_* env still wins
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = "modelwatch-api"
	}
	lopt.StaticFields = map[string]string{"version": version.Info().Version}
	logger.Init(lopt)
	l := logger.Get()

	// open the platform store; a backend without a DBURL stays nil
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(
		context.Background(),
		store.Config{
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
				ClientTag:  "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads MODELWATCH_API_PORT)
	srv := phttp.NewServer(mwCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  mwCfg.MayBool("API_SWAGGER", true),
			EnableProfiler: mwCfg.MayBool("API_PROFILER", false),
		},
	)

	// stop on SIGINT/SIGTERM with a short drain window
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
