package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Console is a stdin/stdout gateway for running the bot locally without a
// chat platform. Every line read is one message from a single pseudo-user.
type Console struct {
	in     io.Reader
	out    io.Writer
	author string
}

// Ensure Console implements Gateway
var _ Gateway = (*Console)(nil)

// NewConsole creates a console gateway reading from in and replying to out
func NewConsole(in io.Reader, out io.Writer, author string) *Console {
	return &Console{in: in, out: out, author: author}
}

// Run reads lines until EOF or context cancellation
func (c *Console) Run(ctx context.Context, dispatch DispatchFunc) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg := Message{
			ChannelID:  "console",
			AuthorID:   c.author,
			AuthorName: c.author,
			Content:    scanner.Text(),
		}
		if reply := dispatch(ctx, msg); reply != "" {
			fmt.Fprintln(c.out, reply)
		}
	}
	return scanner.Err()
}
