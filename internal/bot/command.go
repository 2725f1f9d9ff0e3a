// Package bot routes inbound chat messages to command handlers. The chat
// platform itself is an external collaborator: anything that can deliver
// Messages and print replies can drive the Router.
package bot

import "context"

// Message is one inbound chat message, as delivered by a gateway
type Message struct {
	ChannelID  string
	AuthorID   string
	AuthorName string
	Content    string
}

// Usage documents one invocation form of a command for the help listing
type Usage struct {
	Args        string
	Description string
}

// HandlerFunc executes a command. argv is the whitespace-split message with
// the prefix stripped, argv[0] being the matched command word. The returned
// string is sent back to the originating channel; empty means no reply.
type HandlerFunc func(ctx context.Context, msg Message, argv []string) (string, error)

// PlainFunc handles non-prefixed messages (used for baseball guesses). An
// empty reply means the message was not for us.
type PlainFunc func(ctx context.Context, msg Message) (string, error)

// Command is a registered chat command
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       []Usage
	Handler     HandlerFunc
}

// DispatchFunc is the router entry point a gateway calls per message
type DispatchFunc func(ctx context.Context, msg Message) string

// Gateway connects the router to a chat platform: it delivers inbound
// messages to dispatch and prints whatever dispatch returns
type Gateway interface {
	Run(ctx context.Context, dispatch DispatchFunc) error
}
