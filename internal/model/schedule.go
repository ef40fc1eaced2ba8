package model

// ScheduleStatus is the server-assigned lifecycle state of a schedule.
// The client never derives it locally.
type ScheduleStatus string

const (
	StatusUpcoming   ScheduleStatus = "upcoming"
	StatusInProgress ScheduleStatus = "in-progress"
	StatusCompleted  ScheduleStatus = "completed"
	StatusCancelled  ScheduleStatus = "cancelled"
)

// Schedule is one planned caregiving visit.
type Schedule struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"id"`

	// ClientName is the name of the person receiving care.
	ClientName string `json:"client_name"`

	// Location is the human-readable visit address.
	Location string `json:"location"`

	// Status is the enumerated visit state, owned by the server.
	Status ScheduleStatus `json:"status"`

	// ShiftTime is the planned start instant in RFC 3339 form. It is
	// the authoritative source for every derived date/time display
	// value; see the shift package.
	ShiftTime string `json:"shift_time"`

	// StartTime and EndTime are set once the visit is clocked in/out.
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`

	// Coordinates captured at clock-in and clock-out.
	StartLatitude  *float64 `json:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ScheduleDetails is a schedule with its task checklist attached, as
// returned by the single-schedule endpoint.
type ScheduleDetails struct {
	Schedule
	Tasks []Task `json:"tasks"`
}

// Pagination describes one page of a schedule listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// HasNextPage reports whether a further page can be requested.
func (p Pagination) HasNextPage() bool {
	return p.Page < p.TotalPages
}
