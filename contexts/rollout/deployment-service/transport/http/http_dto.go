package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AssignTargetRequest struct {
	ControllerID string `json:"controller_id"`
	Type         string `json:"type,omitempty"`
	ForcedTime   string `json:"forced_time,omitempty"`
}

type AssignDistributionSetRequest struct {
	Targets []AssignTargetRequest `json:"targets"`
}

type AssignmentFailureDTO struct {
	ControllerID string `json:"controller_id"`
	Reason       string `json:"reason"`
}

type AssignmentResultDTO struct {
	Assigned        int                    `json:"assigned"`
	AlreadyAssigned int                    `json:"already_assigned"`
	Total           int                    `json:"total"`
	Failures        []AssignmentFailureDTO `json:"failures,omitempty"`
}

type AssignmentResponse struct {
	Status string              `json:"status"`
	Data   AssignmentResultDTO `json:"data"`
}

type ProgressDTO struct {
	Cnt int `json:"cnt"`
	Of  int `json:"of"`
}

type ActionDTO struct {
	ActionID     string  `json:"action_id"`
	ControllerID string  `json:"controller_id"`
	SetID        string  `json:"distribution_set"`
	Type         string  `json:"type"`
	ForcedTime   *string `json:"forced_time,omitempty"`
	Status       string  `json:"status"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ActionResponse struct {
	Status string    `json:"status"`
	Data   ActionDTO `json:"data"`
}

type ActionListResponse struct {
	Status string      `json:"status"`
	Data   []ActionDTO `json:"data"`
}

type ActionStatusEntryDTO struct {
	EntryID    string       `json:"entry_id"`
	Status     string       `json:"status"`
	Messages   []string     `json:"messages,omitempty"`
	Progress   *ProgressDTO `json:"progress,omitempty"`
	OccurredAt string       `json:"occurred_at"`
}

type ActionStatusListResponse struct {
	Status string                 `json:"status"`
	Data   []ActionStatusEntryDTO `json:"data"`
}

type FeedbackRequest struct {
	Status   string       `json:"status"`
	Messages []string     `json:"messages,omitempty"`
	Progress *ProgressDTO `json:"progress,omitempty"`
}

type PendingActionDTO struct {
	Action ActionDTO `json:"action"`
	Stop   bool      `json:"stop"`
	StopID string    `json:"stop_id,omitempty"`
}

type PendingActionResponse struct {
	Status string           `json:"status"`
	Data   PendingActionDTO `json:"data"`
}
