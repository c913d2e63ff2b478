package planner

// CreateExpoParams carries the inputs for planner expo creation.
type CreateExpoParams struct {
	Name     string
	Date     string
	Location string
}

// CreateListParams carries the inputs for named shortlist creation.
type CreateListParams struct {
	ExpoID string
	Name   string
}

// CreateMeetingParams carries the inputs for scheduling an agenda meeting.
type CreateMeetingParams struct {
	ExhibitorID string
	Time        string
	Agenda      string
}

// UpdateMeetingParams carries the optional fields of a meeting update.
type UpdateMeetingParams struct {
	Time   *string
	Agenda *string
	Status *string
	Notes  *string
}
