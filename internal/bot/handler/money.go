// Package handler implements the chat command handlers on top of the ledger
// and baseball services.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/services/ledger"
)

// listLimit is how many events the list subcommand shows
const listLimit = 10

// eventTimeLayout renders event timestamps in replies
const eventTimeLayout = "2006.01.02. 15:04"

// MoneyHandler serves the money command family
type MoneyHandler struct {
	ledger *ledger.Service
	roster *model.Roster
}

// NewMoneyCommand registers the money command backed by the given service
func NewMoneyCommand(svc *ledger.Service, roster *model.Roster) *bot.Command {
	h := &MoneyHandler{ledger: svc, roster: roster}
	return &bot.Command{
		Name:        "money",
		Aliases:     []string{"m"},
		Description: "Track and settle shared expenses.",
		Usage: []bot.Usage{
			{Args: "list|ls [name]", Description: "Show the 10 most recent ledger events, optionally only those involving a name."},
			{Args: "status|st [name]", Description: "Show current balances, optionally for one person."},
			{Args: "transaction|t <amount> <from> <to> [comment]", Description: "Record that <from> lent <amount> to <to>."},
			{Args: "dutch|d <total> <payer> <a,b,c> [comment]", Description: "Split <total> between the payer and the listed people."},
			{Args: "undo", Description: "Remove the most recent event and revert its effect."},
			{Args: "clear <a> <b> [comment]", Description: "Settle the whole balance between two people."},
			{Args: "plan <standard> <others...>", Description: "Preview the transfers that settle everyone through <standard>."},
			{Args: "arrange <standard> <others...>", Description: "Commit the plan: clear all pairs and record the transfers."},
		},
		Handler: h.handle,
	}
}

func (h *MoneyHandler) handle(ctx context.Context, msg bot.Message, argv []string) (string, error) {
	if len(argv) < 2 {
		return "money needs a subcommand. Try `help money` for usage.", nil
	}

	switch argv[1] {
	case "list", "ls":
		return h.list(ctx, argv[2:])
	case "status", "st":
		return h.status(ctx, argv[2:])
	case "transaction", "t":
		return h.transaction(ctx, argv[2:])
	case "dutch", "d":
		return h.dutch(ctx, argv[2:])
	case "undo":
		return h.undo(ctx)
	case "clear":
		return h.clear(ctx, argv[2:])
	case "plan":
		return h.plan(ctx, argv[2:])
	case "arrange":
		return h.arrange(ctx, argv[2:])
	default:
		return fmt.Sprintf("unknown money subcommand %q. Try `help money` for usage.", argv[1]), nil
	}
}

func (h *MoneyHandler) list(ctx context.Context, args []string) (string, error) {
	events, err := h.ledger.Events(ctx, listLimit, args...)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No ledger events yet.", nil
	}

	var b strings.Builder
	b.WriteString("Recent ledger events (newest first):\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "%s - %s ⇒ %s: %d", ev.CreatedAt.Local().Format(eventTimeLayout), ev.FromName, ev.ToNames, ev.Amount)
		if ev.Type == model.EventDutch {
			b.WriteString(" (dutch)")
		}
		if ev.Type == model.EventClear {
			b.WriteString(" (clear)")
		}
		if ev.Comment != "" {
			fmt.Fprintf(&b, " (reason: %s)", ev.Comment)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *MoneyHandler) status(ctx context.Context, args []string) (string, error) {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	entries, err := h.ledger.Balances(ctx, filter)
	if err != nil {
		return "", err
	}

	// Directed view per participant, in roster order
	owed := make(map[string]map[string]int64)
	for _, e := range entries {
		if e.Debt == 0 {
			continue
		}
		for _, name := range []string{e.NameA, e.NameB} {
			if owed[name] == nil {
				owed[name] = make(map[string]int64)
			}
		}
		owed[e.NameA][e.NameB] = e.OwedBy(e.NameA)
		owed[e.NameB][e.NameA] = e.OwedBy(e.NameB)
	}

	var b strings.Builder
	for _, name := range h.roster.Names() {
		if filter != "" && name != filter {
			continue
		}
		debts := owed[name]
		if len(debts) == 0 {
			continue
		}
		var total int64
		var lines []string
		for _, target := range h.roster.Names() {
			amount, ok := debts[target]
			if !ok || amount == 0 {
				continue
			}
			total += amount
			if amount > 0 {
				lines = append(lines, fmt.Sprintf("  owes %s %d", target, amount))
			} else {
				lines = append(lines, fmt.Sprintf("  is owed %d by %s", -amount, target))
			}
		}
		direction := "owes"
		if total < 0 {
			direction = "is owed"
		}
		fmt.Fprintf(&b, "%s (%s %d in total)\n%s\n", name, direction, abs(total), strings.Join(lines, "\n"))
	}
	if b.Len() == 0 {
		return "No outstanding balances.", nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *MoneyHandler) transaction(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "usage: money t <amount> <from> <to> [comment]", nil
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return "", err
	}
	comment := strings.Join(args[3:], " ")

	ev, err := h.ledger.Pay(ctx, args[1], args[2], comment, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Recorded: %s ⇒ %s, %d. %s now owes %s that much more.",
		ev.FromName, ev.ToNames, ev.Amount, ev.ToNames, ev.FromName), nil
}

func (h *MoneyHandler) dutch(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "usage: money d <total> <payer> <a,b,c> [comment]", nil
	}
	total, err := parseAmount(args[0])
	if err != nil {
		return "", err
	}
	tos := strings.Split(args[2], ",")
	comment := strings.Join(args[3:], " ")

	ev, share, err := h.ledger.Dutch(ctx, args[1], tos, comment, total)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Dutch recorded: %s paid %d for %s. Each owes %s %d.",
		ev.FromName, ev.Amount, ev.ToNames, ev.FromName, share), nil
}

func (h *MoneyHandler) undo(ctx context.Context) (string, error) {
	ev, err := h.ledger.Undo(ctx)
	if errors.Is(err, model.ErrNoEvents) {
		return "Nothing to undo: the ledger is empty.", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Undone event #%d (%s: %s ⇒ %s, %d).",
		ev.ID, ev.Type, ev.FromName, ev.ToNames, ev.Amount), nil
}

func (h *MoneyHandler) clear(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "usage: money clear <a> <b> [comment]", nil
	}
	comment := strings.Join(args[2:], " ")

	ev, err := h.ledger.Clear(ctx, args[0], args[1], comment)
	if errors.Is(err, model.ErrNothingToClear) {
		return fmt.Sprintf("Nothing to clear between %s and %s.", args[0], args[1]), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared: %s paid %s %d; the pair is now settled.",
		ev.FromName, ev.ToNames, ev.Amount), nil
}

func (h *MoneyHandler) plan(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "usage: money plan <standard> <others...>", nil
	}
	plan, err := h.ledger.Plan(ctx, args[0], args[1:])
	if err != nil {
		return "", err
	}
	if len(plan.Transfers) == 0 {
		return fmt.Sprintf("Everyone among %s and %s is already settled.",
			plan.Standard, strings.Join(plan.Others, ", ")), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Settlement plan through %s:\n", plan.Standard)
	for _, t := range plan.Transfers {
		fmt.Fprintf(&b, "  %s ⇒ %s: %d\n", t.From, t.To, t.Amount)
	}
	b.WriteString("Run `money arrange` with the same people to commit.")
	return b.String(), nil
}

func (h *MoneyHandler) arrange(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "usage: money arrange <standard> <others...>", nil
	}
	settled, err := h.ledger.Arrange(ctx, args[0], args[1:])
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Settlement %s committed: cleared %d pair(s).\n", settled.ID, settled.ClearedPairs)
	if len(settled.Plan.Transfers) == 0 {
		b.WriteString("No transfers needed.")
		return b.String(), nil
	}
	b.WriteString("Recorded transfers:\n")
	for _, t := range settled.Plan.Transfers {
		fmt.Fprintf(&b, "  %s ⇒ %s: %d\n", t.From, t.To, t.Amount)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, model.Validationf("amount must be a number, got %q", s)
	}
	return amount, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
