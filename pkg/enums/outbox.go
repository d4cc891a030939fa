package enums

// EventType names a domain event written to the outbox.
type EventType string

const (
	EventGroupBuyCreated     EventType = "groupbuy.created"
	EventGroupBuyJoined      EventType = "groupbuy.joined"
	EventGroupBuyClosed      EventType = "groupbuy.closed"
	EventRescueItemPosted    EventType = "rescue.posted"
	EventRescueItemClaimed   EventType = "rescue.claimed"
	EventRescueItemCompleted EventType = "rescue.completed"
	EventPredictionGenerated EventType = "prediction.generated"
)

// AggregateType names the aggregate a domain event belongs to.
type AggregateType string

const (
	AggregateGroupBuy   AggregateType = "group_buy"
	AggregateRescueItem AggregateType = "rescue_item"
	AggregatePrediction AggregateType = "prediction"
)

// OutboxStatus tracks the publish lifecycle of an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)
