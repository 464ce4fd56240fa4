package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiconfig "pro_valuation/pkg/api/config"
	apivaluation "pro_valuation/pkg/api/valuation"
	"pro_valuation/pkg/core/assumption"
	"pro_valuation/pkg/core/fundamentals"
	"pro_valuation/pkg/core/store"
	"pro_valuation/pkg/core/valuation"
)

// ServerConfig is read from config/server.yaml; zero values fall back to
// the defaults below.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	SectorsFile     string `yaml:"sectors_file"`
	UseDatabase     bool   `yaml:"use_database"`
}

func loadConfig() ServerConfig {
	cfg := ServerConfig{
		Port:            8080,
		CacheTTLSeconds: 3600,
		SectorsFile:     "config/sectors.hjson",
	}
	data, err := os.ReadFile("config/server.yaml")
	if err != nil {
		fmt.Println("[CONFIG] No config/server.yaml, using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] Failed to parse config/server.yaml: %v, using defaults\n", err)
	}
	return cfg
}

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := loadConfig()
	set := assumption.Standard()

	// Sector multiple table (Hjson, human-edited)
	sectors, err := assumption.LoadSectorMultiples(cfg.SectorsFile, set.DefaultSectorMultiple)
	if err != nil {
		fmt.Printf("[WARNING] Failed to load sector table: %v\n", err)
		fmt.Println("  Falling back to the default multiple for every sector")
		sectors = assumption.DefaultSectorMultiples(set.DefaultSectorMultiple)
	} else {
		fmt.Printf("[CONFIG] Loaded %d sector multiples from %s\n", sectors.Count(), cfg.SectorsFile)
	}

	// Optional Postgres tier for the fundamentals cache
	var pool *pgxpool.Pool
	if cfg.UseDatabase {
		p, err := store.Connect(context.Background())
		if err != nil {
			fmt.Printf("[WARNING] Database unavailable: %v\n", err)
			fmt.Println("  Fundamentals cache runs memory-only")
		} else {
			pool = p
			defer pool.Close()
		}
	}
	cache := store.NewFundamentalsCache(pool, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	loader := fundamentals.NewLoader(fundamentals.NewYahooProvider(), cache, set)
	engine := valuation.NewEngine(set)

	// Valuation endpoints
	valuationHandler := apivaluation.NewHandler(loader, engine, sectors)
	http.HandleFunc("/api/valuation/analyze", valuationHandler.HandleAnalyze)
	http.HandleFunc("/api/valuation/report", valuationHandler.HandleReport)

	// Config endpoints
	configHandler := apiconfig.NewHandler(set, sectors)
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/valuation/analyze")
	fmt.Println("  - POST /api/valuation/report  (HTML summary)")
	fmt.Println("  - GET  /api/config")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
