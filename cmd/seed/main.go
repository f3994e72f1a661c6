package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"jobportal-subscription/internal/config"
	pg "jobportal-subscription/internal/infra/db/postgres"
	"jobportal-subscription/internal/infra/logging"
	"jobportal-subscription/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := logging.New(cfg.Log, false)
	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool), logger)

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%d %s)\n", p.Name, p.DurationDays, p.Price, p.Currency)
		}
		return
	}

	seed := []struct {
		ID       string
		Name     string
		Price    int64
		Days     int
		Features []string
		Popular  bool
	}{
		{"basic", "Basic", 199, 90, []string{
			"Apply to unlimited jobs",
			"Basic profile visibility",
			"Email support",
		}, false},
		{"standard", "Standard", 699, 365, []string{
			"Apply to unlimited jobs",
			"Priority profile visibility",
			"Resume review",
			"Priority support",
		}, true},
		{"premium", "Premium", 1299, 365, []string{
			"Apply to unlimited jobs",
			"Featured profile placement",
			"Resume review and rewrite",
			"Interview preparation session",
			"Dedicated support",
		}, false},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, s.ID, s.Name, s.Price, "INR", s.Days, s.Features, s.Popular)
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d, price=%d %s)\n", p.Name, p.ID, p.DurationDays, p.Price, p.Currency)
	}

	fmt.Println("Seeding complete.")
}
