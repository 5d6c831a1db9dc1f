package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"checkinbot/internal/domain"
	"checkinbot/internal/portal"
	"checkinbot/internal/repository"
)

// SignInClient is the executor boundary: one call per account, never an
// error, every failure converted into outcome data.
type SignInClient interface {
	SignIn(ctx context.Context, account domain.Account) domain.SignInOutcome
}

var _ SignInClient = (*portal.Client)(nil)

// Runner executes the sign-in protocol over an ordered account list. It is
// the only owner of the outcome sequence; accounts are isolated from each
// other, so one account's failure never stops the batch.
type Runner struct {
	portal   SignInClient
	outcomes repository.OutcomeRepository
	log      *slog.Logger
}

func NewRunner(portalClient SignInClient, outcomeRepo repository.OutcomeRepository, log *slog.Logger) *Runner {
	return &Runner{
		portal:   portalClient,
		outcomes: outcomeRepo,
		log:      log,
	}
}

// Run signs in every account sequentially and returns one outcome per
// account in input order.
func (r *Runner) Run(ctx context.Context, accountList []domain.Account) []domain.SignInOutcome {
	r.log.Info("starting batch", "accounts", len(accountList))

	results := make([]domain.SignInOutcome, 0, len(accountList))
	var failed int

	for _, account := range accountList {
		outcome := r.portal.SignIn(ctx, account)
		outcome.Timestamp = time.Now()
		results = append(results, outcome)

		if outcome.HardFailure() {
			failed++
		}

		// Plain audit line on stdout, kept regardless of notification
		// policy so scheduler logs stay readable on their own.
		fmt.Println(auditLine(outcome))

		r.publish(ctx, outcome)
	}

	r.log.Info("batch finished",
		"total", len(results),
		"succeeded", len(results)-failed,
		"failed", failed,
	)
	return results
}

func (r *Runner) publish(ctx context.Context, outcome domain.SignInOutcome) {
	if err := r.outcomes.SendOutcome(ctx, outcome); err != nil {
		r.log.Warn("failed to publish outcome event",
			"account", outcome.DisplayID,
			"error", err.Error(),
		)
	}
}

func auditLine(o domain.SignInOutcome) string {
	status := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "FAIL"
	}

	already := ""
	if o.WasRedundant {
		already = " (already)"
	}

	reason := o.Detail
	if runes := []rune(reason); len(runes) > 120 {
		reason = string(runes[:120])
	}

	return fmt.Sprintf("[%s] login=%s checkin=%s%s reason=%s",
		o.DisplayID, status(o.LoginSucceeded), status(o.CheckinSucceeded), already, reason)
}
