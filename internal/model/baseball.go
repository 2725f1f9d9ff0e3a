package model

import (
	"fmt"
	"time"
)

// BaseballMeta holds the settings of a number baseball session
type BaseballMeta struct {
	AllowDuplicates bool `json:"allowDuplicates"`
	MaxNum          int  `json:"maxNum"`     // largest usable digit, 0..9
	Digits          int  `json:"digits"`     // answer length
	TrialLimit      int  `json:"trialLimit"` // -1 for unlimited
}

// DefaultBaseballMeta returns the standard game settings
func DefaultBaseballMeta() BaseballMeta {
	return BaseballMeta{AllowDuplicates: false, MaxNum: 9, Digits: 4, TrialLimit: -1}
}

// MastermindMeta returns the Mastermind board game preset
func MastermindMeta() BaseballMeta {
	return BaseballMeta{AllowDuplicates: true, MaxNum: 5, Digits: 4, TrialLimit: 8}
}

// Validate checks the settings for consistency
func (m BaseballMeta) Validate() error {
	if m.MaxNum < 0 || m.MaxNum > 9 {
		return Validationf("max must be between 0 and 9, got %d", m.MaxNum)
	}
	if m.Digits < 1 {
		return Validationf("digit must be at least 1, got %d", m.Digits)
	}
	if m.TrialLimit != -1 && m.TrialLimit < 1 {
		return Validationf("limit must be -1 or at least 1, got %d", m.TrialLimit)
	}
	if !m.AllowDuplicates && m.Digits > m.MaxNum+1 {
		return Validationf(
			"without duplicates only %d distinct digits are available; digit=%d needs max of at least %d",
			m.MaxNum+1, m.Digits, m.Digits-1,
		)
	}
	return nil
}

func (m BaseballMeta) String() string {
	dup := "no"
	if m.AllowDuplicates {
		dup = "yes"
	}
	limit := "none"
	if m.TrialLimit != -1 {
		limit = fmt.Sprintf("%d", m.TrialLimit)
	}
	return fmt.Sprintf("duplicates: %s, digits: 0-%d, answer length: %d, trial limit: %s",
		dup, m.MaxNum, m.Digits, limit)
}

// BaseballSession is one player's active puzzle. Its presence in storage is
// the active state; win, loss and kill all delete it.
type BaseballSession struct {
	UserID    string       `json:"userId"`
	Answer    string       `json:"answer"` // fixed-length digit string, may start with 0
	Meta      BaseballMeta `json:"meta"`
	Trial     int          `json:"trial"` // valid guesses made so far
	Log       []string     `json:"log"`   // display lines of past guesses
	StartedAt time.Time    `json:"startedAt"`
}
