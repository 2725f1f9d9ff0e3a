package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/testutil"
)

func newTestRouter() *Router {
	return NewRouter("!", testutil.NopLogger())
}

func echoCommand(name string, aliases ...string) *Command {
	return &Command{
		Name:    name,
		Aliases: aliases,
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			return "ran " + name, nil
		},
	}
}

func dispatch(r *Router, content string) string {
	return r.Dispatch(context.Background(), Message{
		ChannelID: "chan", AuthorID: "user", AuthorName: "user", Content: content,
	})
}

func TestDispatchRunsRegisteredCommand(t *testing.T) {
	r := newTestRouter()
	r.Register(echoCommand("ping"))

	assert.Equal(t, "ran ping", dispatch(r, "!ping"))
}

func TestDispatchMatchesAliasesCaseInsensitively(t *testing.T) {
	r := newTestRouter()
	r.Register(echoCommand("money", "m"))

	assert.Equal(t, "ran money", dispatch(r, "!m"))
	assert.Equal(t, "ran money", dispatch(r, "!MONEY"))
}

func TestDispatchIgnoresUnknownAndEmpty(t *testing.T) {
	r := newTestRouter()
	r.Register(echoCommand("ping"))

	assert.Empty(t, dispatch(r, "!nosuch"))
	assert.Empty(t, dispatch(r, "!"))
	assert.Empty(t, dispatch(r, "   "))
}

func TestDispatchPassesArgv(t *testing.T) {
	r := newTestRouter()
	var got []string
	r.Register(&Command{
		Name: "echo",
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			got = argv
			return "", nil
		},
	})

	dispatch(r, "!echo  one   two")
	require.Equal(t, []string{"echo", "one", "two"}, got)
}

func TestDispatchRoutesNonPrefixedToPlainHook(t *testing.T) {
	r := newTestRouter()
	r.Register(echoCommand("ping"))
	r.OnPlain(func(ctx context.Context, msg Message) (string, error) {
		if msg.Content == "1234" {
			return "guess!", nil
		}
		return "", nil
	})

	assert.Equal(t, "guess!", dispatch(r, "1234"))
	assert.Empty(t, dispatch(r, "hello there"))
	assert.Equal(t, "ran ping", dispatch(r, "!ping"))
}

func TestDispatchWithoutPlainHookIgnoresChatter(t *testing.T) {
	r := newTestRouter()
	assert.Empty(t, dispatch(r, "just talking"))
}

func TestDispatchShowsValidationErrors(t *testing.T) {
	r := newTestRouter()
	r.Register(&Command{
		Name: "fail",
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			return "", model.Validationf("amount must be a positive number")
		},
	})

	assert.Equal(t, "amount must be a positive number", dispatch(r, "!fail"))
}

func TestDispatchShowsInformationalSentinels(t *testing.T) {
	r := newTestRouter()
	r.Register(&Command{
		Name: "fail",
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			return "", model.ErrNoEvents
		},
	})

	assert.Equal(t, model.ErrNoEvents.Error(), dispatch(r, "!fail"))
}

func TestDispatchMasksInternalErrors(t *testing.T) {
	r := newTestRouter()
	r.Register(&Command{
		Name: "fail",
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			return "", errors.New("connection refused")
		},
	})

	reply := dispatch(r, "!fail")
	assert.Equal(t, errorReply, reply)
	assert.NotContains(t, reply, "connection refused")
}

func TestDispatchRecoversFromPanics(t *testing.T) {
	r := newTestRouter()
	r.Register(&Command{
		Name: "boom",
		Handler: func(ctx context.Context, msg Message, argv []string) (string, error) {
			panic("handler bug")
		},
	})

	assert.Equal(t, errorReply, dispatch(r, "!boom"))
}

func TestCommandsKeepRegistrationOrder(t *testing.T) {
	r := newTestRouter()
	r.Register(echoCommand("money"))
	r.Register(echoCommand("baseball"))
	r.Register(echoCommand("help"))

	names := make([]string, 0, 3)
	for _, cmd := range r.Commands() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"money", "baseball", "help"}, names)

	cmd, ok := r.Lookup("baseball")
	require.True(t, ok)
	assert.Equal(t, "baseball", cmd.Name)
}
