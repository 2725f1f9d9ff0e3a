// Package baseball implements the number baseball (Mastermind-style) game:
// one puzzle session per player, answer generation, guess scoring and
// trial-limit tracking.
package baseball

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jeyoh/moneyball/internal/dependencies/clock"
	"github.com/jeyoh/moneyball/internal/dependencies/random"
	"github.com/jeyoh/moneyball/internal/metrics"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage"
)

// Service manages baseball session state. A player's session lives in storage
// from start until win, loss or kill; the lock keeps a guess's
// read-score-save sequence from interleaving with another command.
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new baseball Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Start begins a session for the player. Fails with model.ErrSessionExists
// when one is already active, or a ValidationError for inconsistent settings.
func (s *Service) Start(ctx context.Context, userID string, meta model.BaseballMeta) (*model.BaseballSession, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.storage.GetSession(ctx, userID)
	if err == nil {
		return nil, model.ErrSessionExists
	}
	if !errors.Is(err, model.ErrNoSession) {
		return nil, err
	}

	sess := &model.BaseballSession{
		UserID:    userID,
		Answer:    s.generateAnswer(meta),
		Meta:      meta,
		StartedAt: s.clock.Now(),
	}
	if err := s.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("baseball session started",
		slog.String("user_id", userID),
		slog.String("settings", meta.String()),
	)
	return sess, nil
}

// generateAnswer draws the answer digits. With duplicates every position is
// an independent draw; without, the answer is a prefix of a uniformly random
// permutation of the usable digits. Answers may start with 0.
func (s *Service) generateAnswer(meta model.BaseballMeta) string {
	answer := make([]byte, meta.Digits)
	if meta.AllowDuplicates {
		for i := range answer {
			answer[i] = byte('0' + s.random.Intn(meta.MaxNum+1))
		}
		return string(answer)
	}

	perm := s.random.Perm(meta.MaxNum + 1)
	for i := 0; i < meta.Digits; i++ {
		answer[i] = byte('0' + perm[i])
	}
	return string(answer)
}

// GuessOutcome describes what a guess did to the session
type GuessOutcome struct {
	// Ignored means the content was not a guess for this player (no active
	// session, or not an all-digit string of the answer length); nothing
	// changed and no reply is expected
	Ignored bool
	// Rejected holds a user-facing reason when the guess was refused without
	// consuming a trial
	Rejected string

	Guess   string
	Strikes int
	Balls   int
	Trial   int
	Won     bool
	Lost    bool
	Answer  string   // revealed when the session ended
	Log     []string // full guess log including this guess
	Meta    model.BaseballMeta
}

// Guess scores content against the player's active session
func (s *Service) Guess(ctx context.Context, userID, content string) (*GuessOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.storage.GetSession(ctx, userID)
	if errors.Is(err, model.ErrNoSession) {
		return &GuessOutcome{Ignored: true}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(content) != sess.Meta.Digits || !allDigits(content) {
		return &GuessOutcome{Ignored: true}, nil
	}
	if !sess.Meta.AllowDuplicates && hasDuplicateDigit(content) {
		return &GuessOutcome{Rejected: "duplicate digits are not allowed in this session"}, nil
	}
	if over, digit := digitOver(content, sess.Meta.MaxNum); over {
		return &GuessOutcome{
			Rejected: "digit " + string(digit) + " is out of range; this session uses " + sess.Meta.String(),
		}, nil
	}

	strikes, balls := Score(sess.Answer, content)
	sess.Trial++
	sess.Log = append(sess.Log, FormatResult(content, strikes, balls))

	out := &GuessOutcome{
		Guess:   content,
		Strikes: strikes,
		Balls:   balls,
		Trial:   sess.Trial,
		Log:     sess.Log,
		Meta:    sess.Meta,
	}

	if strikes == sess.Meta.Digits {
		out.Won = true
		out.Answer = sess.Answer
		if err := s.storage.DeleteSession(ctx, userID); err != nil {
			return nil, err
		}
		metrics.BaseballGamesTotal.WithLabelValues("won").Inc()
		s.logger.Info("baseball session won",
			slog.String("user_id", userID),
			slog.Int("trials", sess.Trial),
		)
		return out, nil
	}

	if sess.Meta.TrialLimit != -1 && sess.Trial >= sess.Meta.TrialLimit {
		out.Lost = true
		out.Answer = sess.Answer
		if err := s.storage.DeleteSession(ctx, userID); err != nil {
			return nil, err
		}
		metrics.BaseballGamesTotal.WithLabelValues("lost").Inc()
		s.logger.Info("baseball session lost",
			slog.String("user_id", userID),
			slog.Int("trials", sess.Trial),
		)
		return out, nil
	}

	if err := s.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return out, nil
}

// Kill ends the player's session without scoring and returns it so the
// caller can reveal the answer. Returns model.ErrNoSession when there is
// nothing to kill.
func (s *Service) Kill(ctx context.Context, userID string) (*model.BaseballSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.storage.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.DeleteSession(ctx, userID); err != nil {
		return nil, err
	}
	metrics.BaseballGamesTotal.WithLabelValues("killed").Inc()
	s.logger.Info("baseball session killed", slog.String("user_id", userID))
	return sess, nil
}

// Info returns the player's active session for display
func (s *Service) Info(ctx context.Context, userID string) (*model.BaseballSession, error) {
	return s.storage.GetSession(ctx, userID)
}

func allDigits(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] < '0' || content[i] > '9' {
			return false
		}
	}
	return len(content) > 0
}

func hasDuplicateDigit(content string) bool {
	var seen [10]bool
	for i := 0; i < len(content); i++ {
		d := content[i] - '0'
		if seen[d] {
			return true
		}
		seen[d] = true
	}
	return false
}

// digitOver reports the first digit above max, if any
func digitOver(content string, max int) (bool, byte) {
	for i := 0; i < len(content); i++ {
		if int(content[i]-'0') > max {
			return true, content[i]
		}
	}
	return false, 0
}
