package dto

import (
	requestModel "concierge/internal/domains/request/model"
	requestDto "concierge/internal/domains/request/model/dto"
)

// RecentRequests is how many of the newest requests the overview lists.
const RecentRequests = 5

type DashboardResponse struct {
	TotalGuests     int                          `json:"total_guests"`
	ActiveBookings  int                          `json:"active_bookings"`
	PendingRequests int                          `json:"pending_requests"`
	ResolvedToday   int                          `json:"resolved_today"`
	RecentRequests  []requestDto.RequestResponse `json:"recent_requests"`
}

func (r *DashboardResponse) FromRecent(models []requestModel.Request) {
	r.RecentRequests = make([]requestDto.RequestResponse, len(models))
	for i, mod := range models {
		r.RecentRequests[i].FromModel(mod)
	}
}
