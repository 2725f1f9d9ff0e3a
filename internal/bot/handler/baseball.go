package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/services/baseball"
)

// BaseballHandler serves the baseball command family and the bare-guess hook
type BaseballHandler struct {
	baseball *baseball.Service
}

// NewBaseballCommand registers the baseball command backed by the given service
func NewBaseballCommand(svc *baseball.Service) *bot.Command {
	h := &BaseballHandler{baseball: svc}
	return &bot.Command{
		Name:        "baseball",
		Aliases:     []string{"bb"},
		Description: "Number-guessing game. Send a bare number to guess.",
		Usage: []bot.Usage{
			{Args: "start [dup=T|F] [max=N] [digit=N] [limit=N]", Description: "Start a game with the default rules, optionally overridden."},
			{Args: "mastermind [dup=T|F] [max=N] [digit=N] [limit=N]", Description: "Start a game with mastermind rules (duplicates, digits 0-5, 8 trials)."},
			{Args: "kill", Description: "Abort your current game."},
			{Args: "info", Description: "Show your game's settings and guess history."},
		},
		Handler: h.handle,
	}
}

// NewGuessHook returns the plain-message hook that treats bare digit strings
// as guesses for the author's running game.
func NewGuessHook(svc *baseball.Service) bot.PlainFunc {
	h := &BaseballHandler{baseball: svc}
	return h.guess
}

func (h *BaseballHandler) handle(ctx context.Context, msg bot.Message, argv []string) (string, error) {
	// bare "baseball" starts a game with the default rules
	if len(argv) < 2 {
		return h.start(ctx, msg, model.DefaultBaseballMeta(), nil)
	}

	switch argv[1] {
	case "start":
		return h.start(ctx, msg, model.DefaultBaseballMeta(), argv[2:])
	case "mastermind":
		return h.start(ctx, msg, model.MastermindMeta(), argv[2:])
	case "kill":
		return h.kill(ctx, msg)
	case "info":
		return h.info(ctx, msg)
	default:
		return fmt.Sprintf("unknown baseball subcommand %q. Try `help baseball` for usage.", argv[1]), nil
	}
}

func (h *BaseballHandler) start(ctx context.Context, msg bot.Message, meta model.BaseballMeta, args []string) (string, error) {
	meta, err := applyMetaOverrides(meta, args)
	if err != nil {
		return "", err
	}

	session, err := h.baseball.Start(ctx, msg.AuthorID, meta)
	if errors.Is(err, model.ErrSessionExists) {
		return "You already have a game running. Finish it or `baseball kill` it first.", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Game on! %s Send a bare %d-digit number to guess.",
		session.Meta.String(), session.Meta.Digits), nil
}

func (h *BaseballHandler) kill(ctx context.Context, msg bot.Message) (string, error) {
	session, err := h.baseball.Kill(ctx, msg.AuthorID)
	if errors.Is(err, model.ErrNoSession) {
		return "You have no game running.", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Game aborted after %d trial(s). The answer was %s.",
		session.Trial, session.Answer), nil
}

func (h *BaseballHandler) info(ctx context.Context, msg bot.Message) (string, error) {
	session, err := h.baseball.Info(ctx, msg.AuthorID)
	if errors.Is(err, model.ErrNoSession) {
		return "You have no game running.", nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Settings: %s\n", session.Meta.String())
	fmt.Fprintf(&b, "Trials used: %d", session.Trial)
	if session.Meta.TrialLimit > 0 {
		fmt.Fprintf(&b, "/%d", session.Meta.TrialLimit)
	}
	if len(session.Log) > 0 {
		b.WriteString("\nGuesses so far:")
		for i, line := range session.Log {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, line)
		}
	}
	return b.String(), nil
}

func (h *BaseballHandler) guess(ctx context.Context, msg bot.Message) (string, error) {
	out, err := h.baseball.Guess(ctx, msg.AuthorID, strings.TrimSpace(msg.Content))
	if err != nil {
		return "", err
	}

	switch {
	case out.Ignored:
		return "", nil
	case out.Rejected != "":
		return out.Rejected, nil
	case out.Won:
		return fmt.Sprintf("%s is right! Solved in %d trial(s).", out.Guess, out.Trial), nil
	case out.Lost:
		return fmt.Sprintf("%s. Out of trials (%d/%d) - game over. The answer was %s.",
			baseball.FormatResult(out.Guess, out.Strikes, out.Balls), out.Trial, out.Meta.TrialLimit, out.Answer), nil
	default:
		reply := baseball.FormatResult(out.Guess, out.Strikes, out.Balls)
		if out.Meta.TrialLimit > 0 {
			reply += fmt.Sprintf(" (trial %d/%d)", out.Trial, out.Meta.TrialLimit)
		}
		return reply, nil
	}
}

// applyMetaOverrides parses key=value arguments over a base rule set.
// Unknown keys are a validation error so typos do not silently start a
// different game.
func applyMetaOverrides(meta model.BaseballMeta, args []string) (model.BaseballMeta, error) {
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return meta, model.Validationf("expected key=value, got %q", arg)
		}
		switch strings.ToLower(key) {
		case "dup":
			switch strings.ToUpper(value) {
			case "T":
				meta.AllowDuplicates = true
			case "F":
				meta.AllowDuplicates = false
			default:
				return meta, model.Validationf("dup must be T or F, got %q", value)
			}
		case "max":
			n, err := strconv.Atoi(value)
			if err != nil {
				return meta, model.Validationf("max must be a number, got %q", value)
			}
			meta.MaxNum = n
		case "digit":
			n, err := strconv.Atoi(value)
			if err != nil {
				return meta, model.Validationf("digit must be a number, got %q", value)
			}
			meta.Digits = n
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil {
				return meta, model.Validationf("limit must be a number, got %q", value)
			}
			meta.TrialLimit = n
		default:
			return meta, model.Validationf("unknown option %q (want dup, max, digit or limit)", key)
		}
	}
	return meta, nil
}
