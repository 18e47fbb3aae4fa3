package console

import (
	"fmt"
	"io"
)

type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
}

// WriterNotifier writes one ✔ or ✖ line per notification.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Success(msg string) {
	fmt.Fprintf(n.W, "✔ %s\n", msg)
}

func (n WriterNotifier) Error(msg string, err error) {
	if err == nil {
		fmt.Fprintf(n.W, "✖ %s\n", msg)
		return
	}
	fmt.Fprintf(n.W, "✖ %s: %v\n", msg, err)
}

type nopNotifier struct{}

func (nopNotifier) Success(string)      {}
func (nopNotifier) Error(string, error) {}
