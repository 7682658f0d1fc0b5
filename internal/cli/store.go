package cli

import (
	"github.com/openvillage/reportd/internal/cache"
	"github.com/openvillage/reportd/internal/cms"
	"github.com/openvillage/reportd/internal/hypercerts"
	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/reports"
	"github.com/openvillage/reportd/internal/worker"
)

// buildStore wires the clients and the report store from configuration
func buildStore(cfg *model.Config) *reports.Store {
	var metadataCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			metadataCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			metadataCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	hcClient := hypercerts.NewClient(cfg.Hypercerts, cfg.Proxy, metadataCache, limiter)
	cmsClient := cms.NewClient(cfg.CMS, cfg.Proxy, limiter)

	return reports.NewStore(cfg.Owner, hcClient, hcClient, cmsClient, cfg.Concurrency.ResolveWorkers)
}
