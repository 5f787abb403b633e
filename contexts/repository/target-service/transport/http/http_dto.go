package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterTargetRequest struct {
	ControllerID string `json:"controller_id"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Address      string `json:"address,omitempty"`
}

type UpdateTargetRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type TargetDTO struct {
	ControllerID   string  `json:"controller_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Address        string  `json:"address,omitempty"`
	AssignedSetID  *string `json:"assigned_distribution_set,omitempty"`
	InstalledSetID *string `json:"installed_distribution_set,omitempty"`
	ActiveActionID *string `json:"active_action,omitempty"`
	LastContactAt  string  `json:"last_contact_at"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type TargetResponse struct {
	Status  string    `json:"status"`
	Created bool      `json:"created,omitempty"`
	Data    TargetDTO `json:"data"`
}

type TargetListRequest struct {
	AssignedSetID  string
	InstalledSetID string
	Limit          int
	Offset         int
}

type TargetListResponse struct {
	Status string      `json:"status"`
	Data   []TargetDTO `json:"data"`
}
