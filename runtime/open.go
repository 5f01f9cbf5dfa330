// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/nftstake/boltdb"
	"github.com/vechain/nftstake/config"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/lvldb"
	"github.com/vechain/nftstake/metrics"
	"github.com/vechain/nftstake/state"
)

// Open creates a runtime over the store described by cfg and installs its
// logging and metrics settings. Close releases the store.
func Open(cfg *config.Config, clock Clock) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handler, err := log.NewHandler(os.Stderr, cfg.Log.Format, cfg.Log.Verbosity, cfg.Log.Color)
	if err != nil {
		return nil, err
	}
	log.SetDefault(handler)

	if cfg.Metrics.Enabled {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openDB(cfg.Storage)
	if err != nil {
		return nil, err
	}
	store, err := state.NewStore(db, cfg.Storage.CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	rt := New(store, Options{
		Engine:   cfg.Reward.Engine(),
		Decimals: cfg.Reward.Decimals,
		Clock:    clock,
	})
	rt.closeFn = db.Close

	logger.Info("runtime opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "dailyRate", cfg.Reward.DailyRate)
	return rt, nil
}

func openDB(cfg config.Storage) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return lvldb.NewMem()
	case config.BackendLevelDB:
		db, err := lvldb.New(cfg.Path, lvldb.Options{CacheSize: 16, OpenFilesCacheCapacity: 64})
		if err != nil {
			return nil, errors.Wrap(err, "open leveldb")
		}
		return db, nil
	case config.BackendBolt:
		db, err := boltdb.New(cfg.Path, boltdb.Options{Timeout: time.Second})
		if err != nil {
			return nil, errors.Wrap(err, "open bolt")
		}
		return db, nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
