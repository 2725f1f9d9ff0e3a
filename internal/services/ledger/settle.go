package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeyoh/moneyball/internal/model"
)

// NetPositions computes, for each of the given participants, the signed net
// amount they owe overall, counting only balance entries whose both ends lie
// in the set. Positive means the participant owes; the positions of a set
// always sum to zero.
func (s *Service) NetPositions(ctx context.Context, names []string) (map[string]int64, error) {
	in := make(map[string]struct{}, len(names))
	nets := make(map[string]int64, len(names))
	for _, name := range names {
		in[name] = struct{}{}
		nets[name] = 0
	}

	entries, err := s.storage.ListBalances(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if _, ok := in[entry.NameA]; !ok {
			continue
		}
		if _, ok := in[entry.NameB]; !ok {
			continue
		}
		nets[entry.NameA] += entry.OwedBy(entry.NameA)
		nets[entry.NameB] += entry.OwedBy(entry.NameB)
	}
	return nets, nil
}

// Plan computes the minimal transfer set that zeroes every pairwise balance
// among standard and others by funneling everything through standard: at most
// one transfer per other participant. It is a pure projection and may be
// called any number of times.
func (s *Service) Plan(ctx context.Context, standard string, others []string) (*model.SettlementPlan, error) {
	if err := s.validateSettleSet(standard, others); err != nil {
		return nil, err
	}
	return s.plan(ctx, standard, others)
}

func (s *Service) plan(ctx context.Context, standard string, others []string) (*model.SettlementPlan, error) {
	nets, err := s.NetPositions(ctx, append([]string{standard}, others...))
	if err != nil {
		return nil, err
	}

	plan := &model.SettlementPlan{Standard: standard, Others: others}
	for _, p := range others {
		switch net := nets[p]; {
		case net > 0:
			plan.Transfers = append(plan.Transfers, model.Transfer{From: p, To: standard, Amount: net})
		case net < 0:
			plan.Transfers = append(plan.Transfers, model.Transfer{From: standard, To: p, Amount: -net})
		}
	}
	return plan, nil
}

// Arrange commits a settlement: it records the planned transfers as payments
// (the actual cash changing hands, which zeroes each participant's net), then
// clears every residual pairwise balance among the participants, all tagged
// with a shared settlement ID. The steps are not atomic; each one preserves
// the log/cache invariant on its own, so an interrupted arrange leaves a
// partially settled but consistent ledger, and Plan shows what remains.
func (s *Service) Arrange(ctx context.Context, standard string, others []string) (*model.Settlement, error) {
	if err := s.validateSettleSet(standard, others); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.plan(ctx, standard, others)
	if err != nil {
		return nil, err
	}

	settleID := uuid.NewString()[:8]
	tag := fmt.Sprintf("[settle:%s]", settleID)
	result := &model.Settlement{ID: settleID, Plan: *plan}

	for _, t := range plan.Transfers {
		if _, err := s.pay(ctx, t.From, t.To, tag, t.Amount); err != nil {
			return nil, fmt.Errorf("settle %s: recording %s -> %s: %w", settleID, t.From, t.To, err)
		}
	}

	everyone := append([]string{standard}, others...)
	for i := 0; i < len(everyone); i++ {
		for j := i + 1; j < len(everyone); j++ {
			_, err := s.clear(ctx, everyone[i], everyone[j], tag)
			if errors.Is(err, model.ErrNothingToClear) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("settle %s: clearing %s/%s: %w", settleID, everyone[i], everyone[j], err)
			}
			result.ClearedPairs++
		}
	}

	s.logger.Info("settlement arranged",
		slog.String("settle_id", settleID),
		slog.String("standard", standard),
		slog.Int("cleared_pairs", result.ClearedPairs),
		slog.Int("transfers", len(plan.Transfers)),
	)
	return result, nil
}

func (s *Service) validateSettleSet(standard string, others []string) error {
	if err := s.roster.Validate(standard); err != nil {
		return err
	}
	if err := s.roster.Validate(others...); err != nil {
		return err
	}
	if len(others) == 0 {
		return model.Validationf("settlement needs at least one participant besides %s", standard)
	}
	seen := map[string]struct{}{standard: {}}
	for _, p := range others {
		if p == standard {
			return model.Validationf("%s is the reference and cannot also be a participant", standard)
		}
		if _, dup := seen[p]; dup {
			return model.Validationf("duplicate participant %s", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
