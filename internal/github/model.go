package github

// SeatsPage is one page of the paginated seats listing.
type SeatsPage struct {
	TotalSeats int    `json:"total_seats"`
	Seats      []Seat `json:"seats"`
}

// SeatsReport is the fully paginated seats listing. TotalSeats comes
// from the first page, which the API treats as authoritative.
type SeatsReport struct {
	TotalSeats int    `json:"total_seats"`
	Seats      []Seat `json:"seats"`
}

// Seat is one assigned Copilot license.
type Seat struct {
	Assignee                Assignee `json:"assignee"`
	CreatedAt               string   `json:"created_at"`
	UpdatedAt               string   `json:"updated_at,omitempty"`
	LastActivityAt          string   `json:"last_activity_at,omitempty"`
	LastActivityEditor      string   `json:"last_activity_editor,omitempty"`
	PendingCancellationDate string   `json:"pending_cancellation_date,omitempty"`
	PlanType                string   `json:"plan_type,omitempty"`
}

type Assignee struct {
	Login string `json:"login"`
}

// BillingSummary is the org-level Copilot billing overview.
type BillingSummary struct {
	SeatBreakdown     SeatBreakdown `json:"seat_breakdown"`
	SeatManagement    string        `json:"seat_management_setting,omitempty"`
	PublicCodeSuggest string        `json:"public_code_suggestions,omitempty"`
	PlanType          string        `json:"plan_type,omitempty"`
	IDEChat           string        `json:"ide_chat,omitempty"`
	PlatformChat      string        `json:"platform_chat,omitempty"`
	CLI               string        `json:"cli,omitempty"`
}

type SeatBreakdown struct {
	Total               int `json:"total"`
	AddedThisCycle      int `json:"added_this_cycle"`
	PendingCancellation int `json:"pending_cancellation"`
	PendingInvitation   int `json:"pending_invitation"`
	ActiveThisCycle     int `json:"active_this_cycle"`
	InactiveThisCycle   int `json:"inactive_this_cycle"`
}
