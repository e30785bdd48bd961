package pubsub

import "github.com/pilgrimlyieu/focust/internal/model"

// broadcastBufferSize is wider than defaultBufferSize: the status API's
// long-poll handler and the log viewer can both sit behind a burst of
// rapid scheduler transitions (e.g. a break starting and immediately
// being postponed), and neither should lose the status snapshot it is
// waiting on.
const broadcastBufferSize = 256

// BroadcastBroker is a Broker[model.Broadcast] sized for the scheduler's
// best-effort event bus, with one typed publish method per Broadcast
// variant so callers build a SchedulerEvent, StatusEvent, or
// PostponeLimitReached without also having to pick the right EventType
// and BroadcastKind by hand.
type BroadcastBroker struct {
	*Broker[model.Broadcast]
}

// NewBroadcastBroker creates a BroadcastBroker.
func NewBroadcastBroker() *BroadcastBroker {
	return &BroadcastBroker{Broker: NewBrokerWithBuffer[model.Broadcast](broadcastBufferSize)}
}

// PublishSchedulerEvent announces a break/attention transition.
func (b *BroadcastBroker) PublishSchedulerEvent(event model.SchedulerEvent) {
	b.Publish(UpdatedEvent, model.Broadcast{Kind: model.BroadcastSchedulerEvent, Event: event})
}

// PublishStatus announces a full scheduler-status snapshot, in response
// to either a transition or a RequestStatus command.
func (b *BroadcastBroker) PublishStatus(status model.StatusEvent) {
	b.Publish(UpdatedEvent, model.Broadcast{Kind: model.BroadcastStatus, Status: status})
}

// PublishPostponeLimitReached announces that a break has hit its
// MaxPostponeCount and can no longer be postponed.
func (b *BroadcastBroker) PublishPostponeLimitReached() {
	b.Publish(UpdatedEvent, model.Broadcast{Kind: model.BroadcastPostponeLimitReached})
}
