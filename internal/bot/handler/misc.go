package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/dependencies/random"
	"github.com/jeyoh/moneyball/internal/model"
)

const maxDice = 100

// NewPingCommand registers a liveness check command
func NewPingCommand() *bot.Command {
	return &bot.Command{
		Name:        "ping",
		Description: "Check that the bot is alive.",
		Handler: func(ctx context.Context, msg bot.Message, argv []string) (string, error) {
			return "pong", nil
		},
	}
}

// NewDiceCommand registers a NdS dice roller
func NewDiceCommand(rand random.Random) *bot.Command {
	return &bot.Command{
		Name:        "dice",
		Description: "Roll dice.",
		Usage: []bot.Usage{
			{Args: "<NdS>", Description: "Roll N dice with S sides each, e.g. 2d6."},
		},
		Handler: func(ctx context.Context, msg bot.Message, argv []string) (string, error) {
			spec := "1d6"
			if len(argv) > 1 {
				spec = argv[1]
			}
			count, sides, err := parseDice(spec)
			if err != nil {
				return "", err
			}

			rolls := make([]string, count)
			total := 0
			for i := range rolls {
				roll := rand.Intn(sides) + 1
				total += roll
				rolls[i] = strconv.Itoa(roll)
			}
			if count == 1 {
				return fmt.Sprintf("🎲 %s", rolls[0]), nil
			}
			return fmt.Sprintf("🎲 %s (total %d)", strings.Join(rolls, " + "), total), nil
		},
	}
}

// NewSelectCommand registers a random-choice command
func NewSelectCommand(rand random.Random) *bot.Command {
	return &bot.Command{
		Name:        "select",
		Description: "Pick one of the given options at random.",
		Usage: []bot.Usage{
			{Args: "<option> <option> [...]", Description: "Pick one option."},
		},
		Handler: func(ctx context.Context, msg bot.Message, argv []string) (string, error) {
			options := argv[1:]
			if len(options) < 2 {
				return "", model.Validationf("select needs at least two options")
			}
			return options[rand.Intn(len(options))], nil
		},
	}
}

func parseDice(spec string) (count, sides int, err error) {
	left, right, found := strings.Cut(strings.ToLower(spec), "d")
	if !found {
		return 0, 0, model.Validationf("dice spec must look like 2d6, got %q", spec)
	}
	count, err = strconv.Atoi(left)
	if err != nil || count < 1 {
		return 0, 0, model.Validationf("dice count must be a positive number, got %q", left)
	}
	sides, err = strconv.Atoi(right)
	if err != nil || sides < 2 {
		return 0, 0, model.Validationf("dice sides must be at least 2, got %q", right)
	}
	if count > maxDice {
		return 0, 0, model.Validationf("at most %d dice per roll", maxDice)
	}
	return count, sides, nil
}
