package api

import "github.com/hstiawan/visit-tracker/internal/model"

// Position is a geographic fix sent with clock-in/out requests.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ScheduleList is one page of the schedule listing.
type ScheduleList struct {
	Schedules  []model.Schedule
	Pagination model.Pagination
	Message    string
}

// errorBody is the error object shared by every endpoint's failure
// envelope.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// scheduleListEnvelope is the wire shape of GET /schedules.
// Data may be null even on success.
type scheduleListEnvelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Data       []model.Schedule `json:"data"`
	Pagination model.Pagination `json:"pagination"`
	Error      *errorBody       `json:"error,omitempty"`
}

// scheduleDetailEnvelope is the wire shape of GET /schedules/{id}.
type scheduleDetailEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *model.ScheduleDetails `json:"data"`
	Error   *errorBody             `json:"error,omitempty"`
}

// visitEnvelope is the wire shape of the start/end visit endpoints.
type visitEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   *errorBody `json:"error,omitempty"`
}

// taskEnvelope is the wire shape of POST /tasks/{id}/update.
type taskEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *model.Task `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

// updateTaskRequest is the body of POST /tasks/{id}/update.
type updateTaskRequest struct {
	Status model.TaskStatus `json:"status"`
	Reason *string          `json:"reason,omitempty"`
}

// envelope is implemented by every response shape so the transport
// layer can surface server errors uniformly.
type envelope interface {
	failure() *APIError
}

// asAPIError converts a decoded failure envelope into an APIError,
// preferring the top-level message and falling back to the error
// object's own message.
func asAPIError(success bool, message string, body *errorBody) *APIError {
	if success && body == nil {
		return nil
	}
	apiErr := &APIError{Message: message}
	if body != nil {
		apiErr.Code = body.Code
		apiErr.Details = body.Details
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = "the server reported an error"
	}
	return apiErr
}

func (e *scheduleListEnvelope) failure() *APIError {
	return asAPIError(e.Success, e.Message, e.Error)
}

func (e *scheduleDetailEnvelope) failure() *APIError {
	return asAPIError(e.Success, e.Message, e.Error)
}

func (e *visitEnvelope) failure() *APIError {
	return asAPIError(e.Success, e.Message, e.Error)
}

func (e *taskEnvelope) failure() *APIError {
	return asAPIError(e.Success, e.Message, e.Error)
}
