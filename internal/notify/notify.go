package notify

import (
	"context"
	"log"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
)

// Notifier receives todo lifecycle events. Delivery is best-effort: the
// service logs failures and never surfaces them to the client.
type Notifier interface {
	TodoCreated(ctx context.Context, t dom.Todo) error
}

// LogNotifier writes notifications to the process log. It stands in for the
// outbound email integration, which delegates entirely to its provider.
type LogNotifier struct {
	To string
}

func NewLogNotifier(to string) *LogNotifier {
	return &LogNotifier{To: to}
}

func (n *LogNotifier) TodoCreated(_ context.Context, t dom.Todo) error {
	log.Printf("notify %s: todo %d created: %q", n.To, t.ID, t.Title)
	return nil
}
