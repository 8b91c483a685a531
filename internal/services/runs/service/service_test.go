package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit/repokit"
	perr "marketingetl/internal/platform/errors"
	kit "marketingetl/internal/platform/testkit"
	"marketingetl/internal/services/runs/domain"

	"github.com/google/uuid"
)

type memRepo struct {
	started  []domain.Run
	finished []domain.Run
	err      error
}

func (m *memRepo) Start(_ context.Context, r domain.Run) error {
	m.started = append(m.started, r)
	return m.err
}

func (m *memRepo) Finish(_ context.Context, r domain.Run) error {
	m.finished = append(m.finished, r)
	return m.err
}

func TestLedger_FlattensResult(t *testing.T) {
	repo := &memRepo{}
	l := NewWithRepo(repo, "1.2.0+abc")

	p, _ := pipeline.NewPeriod(time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	res := pipeline.Result{
		RunID:    uuid.MustParse("5f0c6b2e-0000-4000-8000-000000000001"),
		Pipeline: "googleads",
		Table:    "google_ads_campaigns_fact",
		Scope:    pipeline.Scope{Account: "1234567890", Period: p},
		State:    pipeline.StateFailed,
		Status:   pipeline.StatusFailed,
		Rows:     100,
		Batches:  1,
		Err:      perr.New(perr.ErrorCodeLoadFailure, "batch 2 rejected"),
	}
	if err := l.Start(context.Background(), res); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := l.Finish(context.Background(), res); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got := repo.finished[0]
	if got.ID != res.RunID.String() || got.Account != "1234567890" || got.Target != "google_ads_campaigns_fact" {
		t.Fatalf("run = %+v", got)
	}
	if got.State != "failed" || got.Status != "failed" || got.Version != "1.2.0+abc" {
		t.Fatalf("run = %+v", got)
	}
	kit.MustContain(t, got.ErrText, "batch 2 rejected")
	if !got.PeriodStart.Equal(p.Start) || !got.PeriodEnd.Equal(p.End) {
		t.Fatalf("period = %v..%v", got.PeriodStart, got.PeriodEnd)
	}
}

func TestLedger_PropagatesRepoErrors(t *testing.T) {
	l := NewWithRepo(&memRepo{err: errors.New("down")}, "dev")
	if err := l.Finish(context.Background(), pipeline.Result{}); err == nil {
		t.Fatalf("expected repo error")
	}
}

func TestNew_BindsOnce(t *testing.T) {
	repo := &memRepo{}
	binds := 0
	b := repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { binds++; return repo })

	kit.MustPanic(t, func() { New(nil, b, "dev") })
	kit.MustPanic(t, func() { NewWithRepo(nil, "dev") })

	l := New(nopQ{}, b, "dev")
	_ = l.Start(context.Background(), pipeline.Result{})
	_ = l.Finish(context.Background(), pipeline.Result{})
	if binds != 1 || len(repo.started) != 1 || len(repo.finished) != 1 {
		t.Fatalf("binds=%d started=%d finished=%d", binds, len(repo.started), len(repo.finished))
	}
}

type nopQ struct{ repokit.Queryer }

var _ pipeline.Ledger = (*Ledger)(nil)
