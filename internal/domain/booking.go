package domain

import (
	"time"

	"github.com/google/uuid"
)

func NewBooking(userID string, room Room, checkIn, checkOut time.Time, guests int, total float64) Booking {
	return Booking{
		ID:         uuid.New(),
		UserID:     userID,
		RoomID:     room.ID,
		RoomName:   room.Name,
		RoomImage:  room.CoverImage(),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		TotalPrice: total,
		Status:     BookingConfirmed,
		CreatedAt:  time.Now().UTC(),
	}
}
