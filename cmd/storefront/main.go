package main

import (
	"context"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cartsavvy/internal/catalog"
	"cartsavvy/internal/storefront"
	"cartsavvy/pkg/kit"
)

const defaultPriceCeiling = 1000

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	catalogURL := getenv("CATALOG_URL", catalog.DefaultBaseURL)

	state := catalog.NewState(decimal.NewFromInt(defaultPriceCeiling))
	client := catalog.NewClient(catalogURL, log)

	// The catalog loads in the background; /readyz reports 503 until both
	// fetches have joined.
	go func() {
		products, categories := client.Load(context.Background())
		state.SetCatalog(products, categories)
		log.Info("catalog loaded",
			zap.Int("products", len(products)),
			zap.Int("categories", len(categories)),
		)
	}()

	s := &storefront.Server{
		Catalog:  state,
		Sessions: storefront.NewSessions(state, log),
		Log:      log,
	}

	reg := prometheus.NewRegistry()
	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: getenv("METRICS_ENABLED", "true") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		WriteLimit:     getenvInt("WRITE_LIMIT_PER_MIN", 120),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
