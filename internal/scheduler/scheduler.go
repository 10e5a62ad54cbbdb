package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"forager/internal/config"
	"forager/internal/recorder"
	"forager/internal/report"
	"forager/internal/solver"
)

// Result is the outcome of one solve run.
type Result struct {
	RunID  string
	Policy *solver.Policy
}

// Run solves the model described by cfg and writes the decision matrix to its
// output artifact under a fresh run id. Any error aborts the run; no partial
// output is kept.
func Run(cfg *config.Config) (*Result, error) {
	runID := uuid.NewString()
	params := cfg.Params()

	engine, err := solver.New(params,
		solver.WithWorkers(cfg.Solver.Workers),
		solver.WithCriticalReserveSkipped(cfg.Solver.SkipCriticalReserve),
	)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	start := time.Now()
	policy, err := engine.Solve()
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	log.Printf("[INFO] run %s: solved %d reserve levels x %d steps x %d patches in %s",
		runID, params.ReserveMax-params.ReserveMin+1, params.SeasonLength, len(params.Patches), time.Since(start))

	rec, err := recorder.New(cfg.Output.Format, cfg.Output.Path)
	if err != nil {
		return nil, fmt.Errorf("open recorder: %w", err)
	}
	defer rec.Close()

	if err := rec.Record(runID, policy); err != nil {
		return nil, fmt.Errorf("record decisions: %w", err)
	}

	log.Printf("[INFO] run %s summary:\n%s", runID, report.FormatSummary(policy))
	return &Result{RunID: runID, Policy: policy}, nil
}

// Scheduler re-solves the model on a cron schedule, reloading the config file each time.
type Scheduler struct {
	Cron       *cron.Cron
	ConfigPath string
	Ctx        context.Context

	mu   sync.Mutex
	runs int
}

// NewScheduler creates a new Scheduler. Cron expressions carry a leading seconds field.
func NewScheduler(ctx context.Context, configPath string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		ConfigPath: configPath,
		Ctx:        ctx,
	}
}

// Register adds the solve task under the given cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.solveTask); err != nil {
		return fmt.Errorf("register solve task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running solve to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the solve task immediately.
func (s *Scheduler) RunNow() error {
	return s.solve()
}

// Runs returns how many solves completed successfully.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) solveTask() {
	if err := s.solve(); err != nil {
		log.Printf("[ERROR] scheduled solve: %v", err)
	}
}

func (s *Scheduler) solve() error {
	if err := s.Ctx.Err(); err != nil {
		return err
	}
	// Overlapping ticks wait for the previous solve; both write the same artifact.
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Println("[INFO] running solve task")
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := Run(cfg); err != nil {
		return err
	}
	s.runs++
	return nil
}
