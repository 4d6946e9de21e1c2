package adminsdk

import "log/slog"

// User-facing notification texts. The error text is deliberately generic:
// network, credential, and server failures are indistinguishable to the user
// so nothing about the backend leaks.
const (
	MsgLoginSucceeded = "signed in successfully"
	MsgLoginFailed    = "login failed, please try again"
)

// Notifier surfaces feedback to the operator driving the form.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier reports notifications through slog. Useful default for
// headless callers; interactive frontends supply their own Notifier.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Success(msg string) { n.logger().Info(msg) }
func (n *LogNotifier) Error(msg string)   { n.logger().Warn(msg) }

func (n *LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}
