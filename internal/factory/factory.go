// Package factory wires the application components together.
package factory

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/bot/handler"
	"github.com/jeyoh/moneyball/internal/config"
	"github.com/jeyoh/moneyball/internal/dependencies/clock"
	"github.com/jeyoh/moneyball/internal/dependencies/random"
	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/services/baseball"
	"github.com/jeyoh/moneyball/internal/services/ledger"
	"github.com/jeyoh/moneyball/internal/storage"
	"github.com/jeyoh/moneyball/internal/storage/memory"
	redisstorage "github.com/jeyoh/moneyball/internal/storage/redis"
	"github.com/jeyoh/moneyball/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Clock   clock.Clock
	Random  random.Random

	Roster *model.Roster

	Ledger   *ledger.Service
	Baseball *baseball.Service

	Router *bot.Router
}

// New creates the application with the storage backend the config selects
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.StorageType {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageSqlite:
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		store = s
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.SessionTTL = cfg.SessionTTL
		s, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis storage: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.StorageType)
	}

	roster := model.NewRoster(cfg.AvailableNames)

	return newWithDependencies(cfg.BotPrefix, roster, store, clock.New(), random.New(), logger), nil
}

// newWithDependencies wires services and the command router over the given
// dependencies (useful for testing)
func newWithDependencies(prefix string, roster *model.Roster, store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	ledgerService := ledger.New(store, clk, roster, logger)
	baseballService := baseball.New(store, clk, rnd, logger)

	router := bot.NewRouter(prefix, logger)
	router.Register(handler.NewMoneyCommand(ledgerService, roster))
	router.Register(handler.NewBaseballCommand(baseballService))
	router.OnPlain(handler.NewGuessHook(baseballService))
	router.Register(handler.NewPingCommand())
	router.Register(handler.NewDiceCommand(rnd))
	router.Register(handler.NewSelectCommand(rnd))
	router.Register(handler.NewHelpCommand(router))

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Roster:   roster,
		Ledger:   ledgerService,
		Baseball: baseballService,
		Router:   router,
	}
}
