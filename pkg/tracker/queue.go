package tracker

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/komga"
)

// Disposition is the outcome of one queued action.
type Disposition int

const (
	ActionDone Disposition = iota
	ActionRetry
	ActionFail
)

func (d Disposition) String() string {
	switch d {
	case ActionDone:
		return "done"
	case ActionRetry:
		return "retry"
	default:
		return "fail"
	}
}

// QueueResult pairs a processed action with its disposition.
type QueueResult struct {
	Action      data.ReadAction
	Disposition Disposition
	Err         error
}

// ProcessQueue submits the pending read actions one by one. A transport
// failure is a "try again later", not a loss: the action keeps its place
// in the queue. Any other failure is terminal for that action.
func (t *Tracker) ProcessQueue(ctx context.Context, actions []data.ReadAction) []QueueResult {
	results := make([]QueueResult, len(actions))
	for i, action := range actions {
		err := t.submit(ctx, action)
		result := QueueResult{Action: action, Err: err}
		switch {
		case err == nil:
			result.Disposition = ActionDone
		case komga.IsUnavailable(err):
			result.Disposition = ActionRetry
			log.Warn().Str("book", action.BookID).Err(err).Msg("read action deferred")
		default:
			result.Disposition = ActionFail
			log.Error().Str("book", action.BookID).Err(err).Msg("read action failed")
		}
		results[i] = result
	}
	return results
}

func (t *Tracker) submit(ctx context.Context, action data.ReadAction) error {
	if action.Completed {
		return t.client.MarkRead(ctx, action.BookID)
	}
	return t.client.MarkUnread(ctx, action.BookID)
}
