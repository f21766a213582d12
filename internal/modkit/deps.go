package modkit

import (
	"modelwatch/internal/modkit/repokit"
	"modelwatch/internal/platform/config"
	"modelwatch/internal/platform/logger"
	"modelwatch/internal/platform/store"
)

// Deps carries the process-wide dependencies every module constructor
// receives. Fields stay zero when the backend behind them is not
// configured: PG is set only for the pg snapshot backend and CH only when
// change archiving is on, so modules nil check what they reach for.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
