package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// notifier prints one-shot coloured notices.
type notifier struct {
	w      io.Writer
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

func newNotifier(w io.Writer) *notifier {
	return &notifier{
		w:      w,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
}

func (n *notifier) Error(format string, args ...any) {
	n.red.Fprintf(n.w, "Error: "+format+"\n", args...)
}

func (n *notifier) Success(format string, args ...any) {
	n.green.Fprintf(n.w, format+"\n", args...)
}

func (n *notifier) Warn(format string, args ...any) {
	n.yellow.Fprintf(n.w, format+"\n", args...)
}

func (n *notifier) Heading(format string, args ...any) {
	n.cyan.Fprintf(n.w, format+"\n", args...)
}

func (n *notifier) Println(args ...any) {
	fmt.Fprintln(n.w, args...)
}

func (n *notifier) Printf(format string, args ...any) {
	fmt.Fprintf(n.w, format, args...)
}
