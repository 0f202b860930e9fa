package mailer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"pos_emailer/internal/domain/notification"

	"github.com/fatih/color"
)

// ConsoleSender prints messages instead of delivering them. Used for dry runs.
type ConsoleSender struct {
	out io.Writer
}

func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

func (s *ConsoleSender) Send(ctx context.Context, msg notification.Message) error {
	fmt.Fprintf(s.out, "%s %s  %s %s\n",
		color.New(color.FgCyan).Sprint("[DRY-RUN]"),
		color.New(color.FgYellow).Sprint(msg.Kind),
		msg.To,
		color.New(color.Bold).Sprintf("%q", msg.Subject),
	)
	for _, line := range strings.Split(strings.TrimSpace(msg.Text), "\n") {
		fmt.Fprintf(s.out, "    %s\n", line)
	}
	return nil
}
