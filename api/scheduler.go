/*
scheduler.go - Automated portfolio revaluation

PURPOSE:
  Periodically revalues every stored portfolio and records a valuation
  run, so the run history stays current without manual POSTs.

DESIGN:
  - cron/v3 drives the schedule (default: top of every hour)
  - Each tick lists portfolios and runs the same batch valuation the
    ValuePortfolio endpoint uses
  - A failing portfolio is logged and skipped; the tick continues

USAGE:
  reval := api.NewRevaluationJob(store, handler, "0 * * * *")
  reval.Start()
  // ... later
  reval.Stop()

SEE ALSO:
  - handlers.go: ValuePortfolio endpoint (manual revaluation)
*/
package api

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// RevaluationJob revalues all portfolios on a cron schedule.
type RevaluationJob struct {
	Store   pam.Store
	Handler *Handler
	Spec    string

	cron *cron.Cron
}

// NewRevaluationJob creates the job. An empty spec means hourly.
func NewRevaluationJob(store pam.Store, handler *Handler, spec string) *RevaluationJob {
	if spec == "" {
		spec = "0 * * * *"
	}
	return &RevaluationJob{Store: store, Handler: handler, Spec: spec}
}

// Start schedules the job. Returns the cron entry error, if any.
func (j *RevaluationJob) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.Spec, j.runOnce); err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("[Revaluation] Started with spec %q", j.Spec)
	return nil
}

// Stop halts the cron scheduler, waiting for a running tick to finish.
func (j *RevaluationJob) Stop() {
	if j.cron != nil {
		ctx := j.cron.Stop()
		<-ctx.Done()
		log.Println("[Revaluation] Stopped")
	}
}

func (j *RevaluationJob) runOnce() {
	ctx := context.Background()
	portfolios, err := j.Store.ListPortfolios(ctx)
	if err != nil {
		log.Printf("[Revaluation] Failed to list portfolios: %v", err)
		return
	}

	asOf := schedule.Today()
	for _, p := range portfolios {
		run, _, err := j.Handler.runPortfolioValuation(ctx, p, asOf)
		if err != nil {
			log.Printf("[Revaluation] Portfolio %s failed: %v", p.ID, err)
			continue
		}
		log.Printf("[Revaluation] Portfolio %s NPV %s %s", p.ID, run.NPV.String(), run.Currency)
	}
}
