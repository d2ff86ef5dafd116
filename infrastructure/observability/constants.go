package observability

// Metric name prefix
const MetricPrefix = "warden"

// Metric names
const (
	CommandsHandledTotal   = MetricPrefix + ".commands.handled_total"
	ModerationActionsTotal = MetricPrefix + ".moderation.actions_total"
	TracksStartedTotal     = MetricPrefix + ".music.tracks_started_total"
	EventsPublishedTotal   = MetricPrefix + ".events.published_total"
	DatabaseQueryDuration  = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelCommand    = "command"
	LabelAction     = "action"
	LabelEventType  = "event_type"
	LabelRepository = "repository"
	LabelMethod     = "method"
)
