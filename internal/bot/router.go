package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/jeyoh/moneyball/internal/metrics"
	"github.com/jeyoh/moneyball/internal/model"
)

// errorReply is what the user sees when a command fails for a reason that is
// not theirs to fix
const errorReply = "Something went wrong running that command. Please try again."

// Router matches messages against the command registry and runs handlers.
// It is the error-recovery boundary: a handler error or panic becomes a reply,
// never a crash.
type Router struct {
	prefix   string
	commands map[string]*Command
	ordered  []*Command
	plain    PlainFunc
	logger   *slog.Logger
}

// NewRouter creates a router for the given command prefix
func NewRouter(prefix string, logger *slog.Logger) *Router {
	return &Router{
		prefix:   prefix,
		commands: make(map[string]*Command),
		logger:   logger,
	}
}

// Register adds a command under its name and aliases
func (r *Router) Register(cmd *Command) {
	r.ordered = append(r.ordered, cmd)
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}
}

// OnPlain sets the handler for non-prefixed messages
func (r *Router) OnPlain(fn PlainFunc) {
	r.plain = fn
}

// Commands returns the registered commands in registration order
func (r *Router) Commands() []*Command {
	return r.ordered
}

// Lookup finds a command by name or alias
func (r *Router) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Prefix returns the command prefix
func (r *Router) Prefix() string {
	return r.prefix
}

// Dispatch handles one inbound message and returns the reply to send, or ""
// for no reply
func (r *Router) Dispatch(ctx context.Context, msg Message) (reply string) {
	command := ""
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("panic recovered",
				slog.Any("error", p),
				slog.String("command", command),
				slog.String("stack", string(debug.Stack())),
			)
			metrics.CommandErrorsTotal.WithLabelValues(command).Inc()
			reply = errorReply
		}
	}()

	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, r.prefix) {
		if r.plain == nil {
			return ""
		}
		out, err := r.plain(ctx, msg)
		if err != nil {
			return r.renderError("", err)
		}
		return out
	}

	argv := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(argv) == 0 {
		return ""
	}

	cmd, ok := r.commands[strings.ToLower(argv[0])]
	if !ok {
		return ""
	}
	command = cmd.Name
	metrics.CommandsTotal.WithLabelValues(cmd.Name).Inc()

	out, err := cmd.Handler(ctx, msg, argv)
	if err != nil {
		return r.renderError(cmd.Name, err)
	}
	return out
}

// renderError turns a handler error into a reply. Validation problems and
// "nothing to do" sentinels carry user-facing messages; anything else is
// logged and answered opaquely.
func (r *Router) renderError(command string, err error) string {
	if model.IsValidation(err) || model.IsInformational(err) {
		return err.Error()
	}
	r.logger.Error("command failed",
		slog.String("command", command),
		slog.String("error", err.Error()),
	)
	metrics.CommandErrorsTotal.WithLabelValues(command).Inc()
	return errorReply
}
