package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRunID is the standardized structured logging key for run correlation identifiers.
	FieldRunID = "run_id"
	// FieldEventType tags records so log consumers can filter on event classes.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldFeed is the standardized structured logging key for feed names.
	FieldFeed = "feed"
	// FieldSpeaker is the standardized structured logging key for podcast host labels.
	FieldSpeaker = "speaker"
	// FieldSegment is the standardized structured logging key for script segment indexes.
	FieldSegment = "segment"
	// FieldBackend is the standardized structured logging key for synthesis backend names.
	FieldBackend = "backend"
)
