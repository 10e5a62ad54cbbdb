package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"forager/internal/config"
	"forager/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", "configs/forager.yaml", "path to the YAML config")
	flag.Parse()

	log.Println("[INFO] forager starting...")

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// One-shot batch run
	if cfg.Schedule.Cron == "" {
		if _, err := scheduler.Run(cfg); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		log.Println("[INFO] forager finished")
		return
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, *cfgPath)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] run_on_start enabled, solving now")
		go func() {
			if err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] initial solve: %v", err)
			}
		}()
	}

	log.Printf("[INFO] forager scheduled (%s). Press Ctrl+C to stop.", cfg.Schedule.Cron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] forager stopped")
}
