// Package ledger implements the shared-expense ledger: an append-only event
// log folded into a pairwise balance cache, plus the settlement planner.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jeyoh/moneyball/internal/dependencies/clock"
	"github.com/jeyoh/moneyball/internal/metrics"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage"
)

// Service manages the event log and the balance cache. The cache is, at all
// times, the fold of every event in ID order over an empty table; every
// mutation appends an event and applies its delta under one lock so
// concurrent commands cannot interleave between the two steps.
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	roster  *model.Roster
	logger  *slog.Logger
}

// New creates a new ledger Service
func New(storage storage.Storage, clock clock.Clock, roster *model.Roster, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		roster:  roster,
		logger:  logger,
	}
}

// Pay records that from lent amount to to
func (s *Service) Pay(ctx context.Context, from, to, comment string, amount int64) (*model.Event, error) {
	if err := s.roster.Validate(from, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, model.Validationf("sender and receiver must differ, got %q for both", from)
	}
	if amount <= 0 {
		return nil, model.Validationf("amount must be a positive number, got %d", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pay(ctx, from, to, comment, amount)
}

func (s *Service) pay(ctx context.Context, from, to, comment string, amount int64) (*model.Event, error) {
	ev := &model.Event{
		Type:      model.EventPay,
		FromName:  from,
		ToNames:   to,
		Amount:    amount,
		Comment:   comment,
		CreatedAt: s.clock.Now(),
	}
	if err := s.append(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.applyLoan(ctx, from, to, amount); err != nil {
		return nil, err
	}
	return ev, nil
}

// Dutch records one payer's outlay split across the given participants. The
// total covers len(tos)+1 equal shares (the payer keeps one); each recipient
// owes the payer a ceiling-rounded share. Returns the event and the share.
func (s *Service) Dutch(ctx context.Context, from string, tos []string, comment string, total int64) (*model.Event, int64, error) {
	if err := s.roster.Validate(from); err != nil {
		return nil, 0, err
	}
	if err := s.roster.Validate(tos...); err != nil {
		return nil, 0, err
	}
	if len(tos) == 0 {
		return nil, 0, model.Validationf("dutch needs at least one participant besides the payer")
	}
	if total <= 0 {
		return nil, 0, model.Validationf("amount must be a positive number, got %d", total)
	}
	seen := make(map[string]struct{}, len(tos)+1)
	seen[from] = struct{}{}
	for _, to := range tos {
		if to == from {
			return nil, 0, model.Validationf("payer %s cannot be in the participant list", from)
		}
		if _, dup := seen[to]; dup {
			return nil, 0, model.Validationf("duplicate participant %s", to)
		}
		seen[to] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &model.Event{
		Type:      model.EventDutch,
		FromName:  from,
		ToNames:   strings.Join(tos, ","),
		Amount:    total,
		Comment:   comment,
		CreatedAt: s.clock.Now(),
	}
	if err := s.append(ctx, ev); err != nil {
		return nil, 0, err
	}
	share := model.DutchShare(total, len(tos))
	for _, to := range tos {
		if err := s.applyLoan(ctx, from, to, share); err != nil {
			return nil, 0, err
		}
	}
	return ev, share, nil
}

// Clear discharges the entire current balance between two participants. When
// the pair owes nothing it returns model.ErrNothingToClear and performs no
// mutation, so an immediate repeat call is a no-op as well.
func (s *Service) Clear(ctx context.Context, name1, name2, comment string) (*model.Event, error) {
	if err := s.roster.Validate(name1, name2); err != nil {
		return nil, err
	}
	if name1 == name2 {
		return nil, model.Validationf("cannot clear a balance between %s and themselves", name1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx, name1, name2, comment)
}

func (s *Service) clear(ctx context.Context, name1, name2, comment string) (*model.Event, error) {
	nameA, nameB := model.CanonicalPair(name1, name2)
	debt, err := s.storage.GetBalance(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}
	if debt == 0 {
		return nil, model.ErrNothingToClear
	}

	// The clear event records the discharge as the debtor handing the owed
	// amount to the creditor
	debtor, creditor, amount := nameB, nameA, debt
	if debt < 0 {
		debtor, creditor, amount = nameA, nameB, -debt
	}

	ev := &model.Event{
		Type:      model.EventClear,
		FromName:  debtor,
		ToNames:   creditor,
		Amount:    amount,
		Comment:   comment,
		CreatedAt: s.clock.Now(),
	}
	if err := s.append(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.applyLoan(ctx, debtor, creditor, amount); err != nil {
		return nil, err
	}
	return ev, nil
}

// Undo removes the most recent event and reverses its balance effect. Dutch
// events store only the total, so the reversal recomputes the per-head share
// with the same ceiling formula the forward path used.
func (s *Service) Undo(ctx context.Context) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.storage.LatestEvent(ctx)
	if err != nil {
		return nil, err
	}

	switch ev.Type {
	case model.EventPay, model.EventClear:
		if err := s.applyLoan(ctx, ev.FromName, ev.ToNames, -ev.Amount); err != nil {
			return nil, err
		}
	case model.EventDutch:
		tos := ev.Recipients()
		share := model.DutchShare(ev.Amount, len(tos))
		for _, to := range tos {
			if err := s.applyLoan(ctx, ev.FromName, to, -share); err != nil {
				return nil, err
			}
		}
	}

	if err := s.storage.DeleteEvent(ctx, ev.ID); err != nil {
		return nil, err
	}
	s.logger.Info("event undone",
		slog.Int64("id", ev.ID),
		slog.String("type", string(ev.Type)),
	)
	return ev, nil
}

// Events returns up to limit events, newest first, optionally filtered to
// those involving every given name
func (s *Service) Events(ctx context.Context, limit int, names ...string) ([]model.Event, error) {
	if err := s.roster.Validate(names...); err != nil {
		return nil, err
	}
	return s.storage.ListEvents(ctx, limit, names...)
}

// Balances returns all balance entries involving name, or every entry when
// name is empty
func (s *Service) Balances(ctx context.Context, name string) ([]model.BalanceEntry, error) {
	if name != "" {
		if err := s.roster.Validate(name); err != nil {
			return nil, err
		}
	}
	return s.storage.ListBalances(ctx, name)
}

// applyLoan folds "from lent amount to to" into the balance cache
func (s *Service) applyLoan(ctx context.Context, from, to string, amount int64) error {
	nameA, nameB, delta := model.PairDelta(from, to, amount)
	return s.storage.AddToBalance(ctx, nameA, nameB, delta)
}

func (s *Service) append(ctx context.Context, ev *model.Event) error {
	if err := s.storage.AppendEvent(ctx, ev); err != nil {
		return err
	}
	metrics.LedgerEventsTotal.WithLabelValues(string(ev.Type)).Inc()
	s.logger.Info("event recorded",
		slog.Int64("id", ev.ID),
		slog.String("type", string(ev.Type)),
		slog.String("from", ev.FromName),
		slog.String("to", ev.ToNames),
		slog.Int64("amount", ev.Amount),
	)
	return nil
}
