package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jeyoh/moneyball/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	store, err := New(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		s.Require().NoError(s.storage.Close())
	}
}

func (s *StorageSuite) appendPay(from, to string, amount int64) *model.Event {
	ev := &model.Event{
		Type:      model.EventPay,
		FromName:  from,
		ToNames:   to,
		Amount:    amount,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, ev))
	return ev
}

func (s *StorageSuite) TestMigrationsAreIdempotent() {
	s.Require().NoError(runMigrations(s.storage.db))
}

// Balance tests

func (s *StorageSuite) TestGetBalanceDefaultsToZero() {
	debt, err := s.storage.GetBalance(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.Zero(debt)
}

func (s *StorageSuite) TestAddToBalanceUpserts() {
	s.Require().NoError(s.storage.AddToBalance(s.ctx, "alice", "bob", 100))
	s.Require().NoError(s.storage.AddToBalance(s.ctx, "alice", "bob", -30))

	debt, err := s.storage.GetBalance(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.Equal(int64(70), debt)
}

func (s *StorageSuite) TestListBalancesFiltersByName() {
	s.Require().NoError(s.storage.AddToBalance(s.ctx, "alice", "bob", 10))
	s.Require().NoError(s.storage.AddToBalance(s.ctx, "carol", "dave", 20))

	all, err := s.storage.ListBalances(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	entries, err := s.storage.ListBalances(s.ctx, "dave")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.BalanceEntry{NameA: "carol", NameB: "dave", Debt: 20}, entries[0])
}

// Event log tests

func (s *StorageSuite) TestAppendEventRoundTrip() {
	ev := &model.Event{
		Type:      model.EventDutch,
		FromName:  "alice",
		ToNames:   "bob,carol",
		Amount:    90,
		Comment:   "dinner",
		CreatedAt: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, ev))
	s.Positive(ev.ID)

	latest, err := s.storage.LatestEvent(s.ctx)
	s.Require().NoError(err)
	s.Equal(ev, latest)
}

func (s *StorageSuite) TestLatestEventEmpty() {
	_, err := s.storage.LatestEvent(s.ctx)
	s.Require().ErrorIs(err, model.ErrNoEvents)
}

func (s *StorageSuite) TestDeleteEventDoesNotReuseIDs() {
	s.appendPay("alice", "bob", 10)
	second := s.appendPay("bob", "carol", 20)
	s.Require().NoError(s.storage.DeleteEvent(s.ctx, second.ID))

	third := s.appendPay("carol", "dave", 30)
	s.Greater(third.ID, second.ID)

	latest, err := s.storage.LatestEvent(s.ctx)
	s.Require().NoError(err)
	s.Equal(third.ID, latest.ID)
}

func (s *StorageSuite) TestListEventsNewestFirstWithLimit() {
	s.appendPay("alice", "bob", 10)
	s.appendPay("alice", "bob", 20)
	s.appendPay("alice", "bob", 30)

	events, err := s.storage.ListEvents(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(int64(30), events[0].Amount)
	s.Equal(int64(20), events[1].Amount)
}

func (s *StorageSuite) TestListEventsNameFilter() {
	s.appendPay("alice", "bob", 10)
	dutch := &model.Event{
		Type:      model.EventDutch,
		FromName:  "carol",
		ToNames:   "alice,dave",
		Amount:    90,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, dutch))

	events, err := s.storage.ListEvents(s.ctx, 10, "dave")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(dutch.ID, events[0].ID)

	// every given name must be involved
	both, err := s.storage.ListEvents(s.ctx, 10, "alice", "bob")
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal(model.EventPay, both[0].Type)
}

func (s *StorageSuite) TestListEventsFilterDoesNotMatchSubstrings() {
	dutch := &model.Event{
		Type:      model.EventDutch,
		FromName:  "carol",
		ToNames:   "annabel,dave",
		Amount:    90,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, dutch))

	events, err := s.storage.ListEvents(s.ctx, 10, "anna")
	s.Require().NoError(err)
	s.Empty(events)
}

// Session tests

func (s *StorageSuite) TestGetSessionAbsent() {
	_, err := s.storage.GetSession(s.ctx, "user-1")
	s.Require().ErrorIs(err, model.ErrNoSession)
}

func (s *StorageSuite) TestSaveSessionRoundTrip() {
	sess := &model.BaseballSession{
		UserID:    "user-1",
		Answer:    "0123",
		Meta:      model.MastermindMeta(),
		Trial:     2,
		Log:       []string{"5678: 0S 0B", "1243: 2S 2B"},
		StartedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	got, err := s.storage.GetSession(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(sess, got)
}

func (s *StorageSuite) TestSaveSessionWithEmptyLog() {
	sess := &model.BaseballSession{
		UserID:    "user-1",
		Answer:    "0123",
		Meta:      model.DefaultBaseballMeta(),
		StartedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	got, err := s.storage.GetSession(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(got.Log)
}

func (s *StorageSuite) TestSaveSessionUpserts() {
	sess := &model.BaseballSession{
		UserID:    "user-1",
		Answer:    "0123",
		Meta:      model.DefaultBaseballMeta(),
		StartedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	sess.Trial = 5
	sess.Log = []string{"5678: 0S 0B"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))

	got, err := s.storage.GetSession(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(5, got.Trial)
	s.Equal([]string{"5678: 0S 0B"}, got.Log)
}

func (s *StorageSuite) TestDeleteSession() {
	sess := &model.BaseballSession{
		UserID:    "user-1",
		Answer:    "0123",
		Meta:      model.DefaultBaseballMeta(),
		StartedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, sess))
	s.Require().NoError(s.storage.DeleteSession(s.ctx, "user-1"))

	_, err := s.storage.GetSession(s.ctx, "user-1")
	s.Require().ErrorIs(err, model.ErrNoSession)
}
