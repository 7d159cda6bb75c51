package rooms

import "github.com/robertarktes/lumiere-hotel/internal/domain"

func price(v float64) *float64 { return &v }

// DemoRooms is the seed catalog loaded when SEED_CATALOG is set.
func DemoRooms() []domain.Room {
	return []domain.Room{
		{
			ID: "room-classic-queen", Name: "Classic Queen Room", Type: domain.RoomStandard,
			ShortDescription: "A calm retreat with garden views.",
			Description:      "Warm oak floors, a plush queen bed and a rain shower overlooking the courtyard garden.",
			Price:            180, Capacity: 2, Size: 28, BedType: "Queen",
			Images:    []string{"/images/rooms/classic-queen-1.jpg", "/images/rooms/classic-queen-2.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Coffee Maker"},
			Available: true, Rating: 4.6, ReviewCount: 212,
		},
		{
			ID: "room-deluxe-king", Name: "Deluxe King Room", Type: domain.RoomDeluxe,
			ShortDescription: "City skyline views and a marble bath.",
			Description:      "Floor-to-ceiling windows frame the skyline; the marble bathroom has a deep soaking tub.",
			Price:            320, OriginalPrice: price(380), Capacity: 2, Size: 38, BedType: "King",
			Images:    []string{"/images/rooms/deluxe-king-1.jpg", "/images/rooms/deluxe-king-2.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Mini Bar", "Bathtub", "City View"},
			Featured:  true, Available: true, Rating: 4.8, ReviewCount: 348,
		},
		{
			ID: "room-family-deluxe", Name: "Family Deluxe Room", Type: domain.RoomDeluxe,
			ShortDescription: "Space for the whole family.",
			Description:      "Two queen beds, a reading nook and a separate vanity area for easy mornings.",
			Price:            360, Capacity: 4, Size: 45, BedType: "Two Queens",
			Images:    []string{"/images/rooms/family-deluxe-1.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Mini Bar", "Coffee Maker"},
			Available: true, Rating: 4.5, ReviewCount: 97,
		},
		{
			ID: "room-junior-suite", Name: "Junior Suite", Type: domain.RoomSuite,
			ShortDescription: "A separate lounge and a private balcony.",
			Description:      "A king bedroom opens onto a sitting room and a balcony with views across the river.",
			Price:            540, OriginalPrice: price(620), Capacity: 3, Size: 62, BedType: "King",
			Images:    []string{"/images/rooms/junior-suite-1.jpg", "/images/rooms/junior-suite-2.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Mini Bar", "Bathtub", "Balcony", "Room Service"},
			Featured:  true, Available: true, Rating: 4.9, ReviewCount: 156,
		},
		{
			ID: "room-grand-suite", Name: "Grand Suite", Type: domain.RoomSuite,
			ShortDescription: "Generous living space and butler service.",
			Description:      "Dining for six, a walk-in wardrobe and a dedicated butler on call.",
			Price:            890, Capacity: 4, Size: 95, BedType: "King",
			Images:    []string{"/images/rooms/grand-suite-1.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Mini Bar", "Bathtub", "Balcony", "Room Service", "Butler Service"},
			Available: true, Rating: 4.9, ReviewCount: 64,
		},
		{
			ID: "room-lumiere-penthouse", Name: "Lumière Penthouse", Type: domain.RoomPenthouse,
			ShortDescription: "The top floor, a private terrace and plunge pool.",
			Description:      "Three bedrooms, a wraparound terrace with a plunge pool and panoramic city views.",
			Price:            1850, Capacity: 6, Size: 210, BedType: "King",
			Images:    []string{"/images/rooms/penthouse-1.jpg", "/images/rooms/penthouse-2.jpg"},
			Amenities: []string{"Free WiFi", "Smart TV", "Air Conditioning", "Mini Bar", "Bathtub", "Balcony", "Room Service", "Butler Service", "Private Pool", "City View"},
			Featured:  true, Available: true, Rating: 5, ReviewCount: 41,
		},
	}
}
