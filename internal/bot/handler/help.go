package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeyoh/moneyball/internal/bot"
)

// NewHelpCommand registers help, generated from the router's registrations.
// It must be added after every other command so the listing is complete.
func NewHelpCommand(router *bot.Router) *bot.Command {
	return &bot.Command{
		Name:        "help",
		Aliases:     []string{"h"},
		Description: "Show available commands.",
		Usage: []bot.Usage{
			{Args: "[command]", Description: "Show detailed usage for one command."},
		},
		Handler: func(ctx context.Context, msg bot.Message, argv []string) (string, error) {
			if len(argv) > 1 {
				return helpFor(router, argv[1])
			}

			var b strings.Builder
			b.WriteString("Available commands:\n")
			for _, cmd := range router.Commands() {
				fmt.Fprintf(&b, "  %s%s - %s\n", router.Prefix(), cmd.Name, cmd.Description)
			}
			fmt.Fprintf(&b, "Use `%shelp <command>` for details.", router.Prefix())
			return b.String(), nil
		},
	}
}

func helpFor(router *bot.Router, name string) (string, error) {
	cmd, ok := router.Lookup(name)
	if !ok {
		return fmt.Sprintf("No such command %q.", name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s - %s", router.Prefix(), cmd.Name, cmd.Description)
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&b, " (aliases: %s)", strings.Join(cmd.Aliases, ", "))
	}
	for _, u := range cmd.Usage {
		fmt.Fprintf(&b, "\n  %s%s %s\n    %s", router.Prefix(), cmd.Name, u.Args, u.Description)
	}
	return b.String(), nil
}
