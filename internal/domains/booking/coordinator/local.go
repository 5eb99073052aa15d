package coordinator

import (
	availService "spacebook/internal/domains/availability/service"
	bookingService "spacebook/internal/domains/booking/service"
	spaceDto "spacebook/internal/domains/space/model/dto"
)

// Local serves a coordinator from the in-process availability and booking services.
type Local struct {
	availService.Availability
	bookingService.Booking
}

func NewLocal(availability availService.Availability, booking bookingService.Booking) Local {
	return Local{Availability: availability, Booking: booking}
}

// Begin starts a booking attempt on space.
func (l Local) Begin(space spaceDto.SpaceResponse, opts ...Option) *Coordinator {
	return New(space, l, opts...)
}
