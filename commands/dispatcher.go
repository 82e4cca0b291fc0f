package commands

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"

	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
)

// Dispatcher subscribes article handlers to the go-command global dispatcher,
// so hosts can publish messages with dispatcher.Dispatch.
type Dispatcher struct{}

var _ CommandDispatcher = Dispatcher{}

// RegisterCommand satisfies CommandDispatcher.
func (Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *articlescmd.NormalizeArticleHandler:
		sub := dispatcher.SubscribeCommand(h)
		return subscriptionFunc(sub.Unsubscribe), nil
	case *articlescmd.MigrateArticlesHandler:
		sub := dispatcher.SubscribeCommand(h)
		return subscriptionFunc(sub.Unsubscribe), nil
	case *articlescmd.ImportLegacyHandler:
		sub := dispatcher.SubscribeCommand(h)
		return subscriptionFunc(sub.Unsubscribe), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}

type subscriptionFunc func()

func (fn subscriptionFunc) Unsubscribe() { fn() }
