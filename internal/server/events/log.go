package events

import (
	"context"

	"github.com/Jan540/account-manager/internal/logging"
)

// LogObserver writes one structured log line per event.
type LogObserver struct {
	logger logging.Logger
}

func NewLogObserver(l logging.Logger) *LogObserver {
	return &LogObserver{logger: l.With("module", "directory_events")}
}

func (o *LogObserver) Observe(ctx context.Context, e Event) error {
	o.logger.Info(ctx, "directory changed",
		"kind", e.Kind,
		"gid", e.GroupID,
		"group_name", e.GroupName,
		"uid", e.UserID,
		"login", e.Login,
	)
	return nil
}
