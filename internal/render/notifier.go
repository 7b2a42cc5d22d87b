package render

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"receipt-dashboard/internal/services"
)

// Notifier prints user-facing messages and mirrors them to the log
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out, logger: slog.Default()}
}

// Notify implements services.Notifier
func (n *Notifier) Notify(level services.NotificationLevel, message string) {
	n.mu.Lock()
	_, _ = fmt.Fprintf(n.out, "[%s] %s\n", levelLabel(level), message)
	n.mu.Unlock()

	n.logger.Debug("notification shown",
		slog.String("level", string(level)),
		slog.String("message", message),
	)
}

func levelLabel(level services.NotificationLevel) string {
	switch level {
	case services.NotificationSuccess:
		return "ok"
	case services.NotificationError:
		return "error"
	default:
		return "info"
	}
}
