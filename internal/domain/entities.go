package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomStandard  RoomType = "standard"
	RoomDeluxe    RoomType = "deluxe"
	RoomSuite     RoomType = "suite"
	RoomPenthouse RoomType = "penthouse"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite, RoomPenthouse:
		return true
	}
	return false
}

type Room struct {
	ID               string   `json:"id" bson:"_id"`
	Name             string   `json:"name" bson:"name"`
	Type             RoomType `json:"type" bson:"type"`
	Description      string   `json:"description" bson:"description"`
	ShortDescription string   `json:"shortDescription" bson:"short_description"`
	Price            float64  `json:"price" bson:"price"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Capacity         int      `json:"capacity" bson:"capacity"`
	Size             int      `json:"size" bson:"size"`
	BedType          string   `json:"bedType" bson:"bed_type"`
	Images           []string `json:"images" bson:"images"`
	Amenities        []string `json:"amenities" bson:"amenities"`
	Featured         bool     `json:"featured" bson:"featured"`
	Available        bool     `json:"available" bson:"available"`
	Rating           float64  `json:"rating" bson:"rating"`
	ReviewCount      int      `json:"reviewCount" bson:"review_count"`
}

// HasAmenity reports whether the room lists the amenity label exactly.
func (r Room) HasAmenity(amenity string) bool {
	for _, a := range r.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}

// CoverImage is the first image, used when a booking denormalizes the room.
func (r Room) CoverImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

// DateRange is a stay selection. Either bound may be unset while the
// user is still picking dates.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

func (d DateRange) Complete() bool {
	return d.From != nil && d.To != nil
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Upcoming reports whether the booking still lies ahead of the guest.
func (s BookingStatus) Upcoming() bool {
	return s == BookingConfirmed || s == BookingPending
}

type Booking struct {
	ID         uuid.UUID     `json:"id"`
	UserID     string        `json:"userId"`
	RoomID     string        `json:"roomId"`
	RoomName   string        `json:"roomName"`
	RoomImage  string        `json:"roomImage"`
	CheckIn    time.Time     `json:"checkIn"`
	CheckOut   time.Time     `json:"checkOut"`
	Guests     int           `json:"guests"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Identity is the user record as returned by the identity provider. Only
// the fields the service reads are decoded; encoding a decoded Identity
// yields the provider's document unchanged.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	raw json.RawMessage
}

type identityFields Identity

func (i *Identity) UnmarshalJSON(data []byte) error {
	var f identityFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*i = Identity(f)
	i.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (i Identity) MarshalJSON() ([]byte, error) {
	if len(i.raw) > 0 {
		return i.raw, nil
	}
	return json.Marshal(identityFields(i))
}

// AuthSession is the provider session, passed to callers untouched.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	User         *Identity `json:"user"`

	raw json.RawMessage
}

type sessionFields AuthSession

func (s *AuthSession) UnmarshalJSON(data []byte) error {
	var f sessionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = AuthSession(f)
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (s AuthSession) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(sessionFields(s))
}

// User is the reduced user shape handed back on sign-in.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Profile is the denormalized row kept in the user-profile store.
type Profile struct {
	ID    string
	Email string
	Name  string
	Role  string
}

const RoleCustomer = "customer"
