package response

import "github.com/shaw8386/server/internal/domain"

type SaveTicketResponse struct {
	Success       bool   `json:"success"`
	Mode          string `json:"mode"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Result        string `json:"result,omitempty"`
	Message       string `json:"message,omitempty"`
}

type ListTicketsResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
}
