package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	OutboxEventMixPublished   OutboxEventType = "mix.published"
	OutboxEventMixDeleted     OutboxEventType = "mix.deleted"
	OutboxEventOrderCompleted OutboxEventType = "order.completed"
)

// IsValid reports whether the value matches the canonical event enum.
func (t OutboxEventType) IsValid() bool {
	switch t {
	case OutboxEventMixPublished, OutboxEventMixDeleted, OutboxEventOrderCompleted:
		return true
	}
	return false
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateMix   OutboxAggregateType = "mix"
	OutboxAggregateOrder OutboxAggregateType = "order"
)

// IsValid reports whether the value matches the canonical aggregate enum.
func (t OutboxAggregateType) IsValid() bool {
	switch t {
	case OutboxAggregateMix, OutboxAggregateOrder:
		return true
	}
	return false
}
