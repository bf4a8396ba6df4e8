package models

import "time"

// ListingKind discriminates rental offers from sale offers. Rent-kind cars
// carry PricePerDay and Availability; sale-kind cars carry SalePrice, IsSold
// and BuyerID. The two field sets are mutually exclusive and enforced at
// create/update time.
type ListingKind string

const (
	ListingRent ListingKind = "rent"
	ListingSale ListingKind = "sale"
)

// Availability is the derived rent-only status of a car. It is never set
// directly by a client; rental transitions drive it.
type Availability string

const (
	CarAvailable   Availability = "available"
	CarUnavailable Availability = "unavailable"
	CarRented      Availability = "rented"
)

type Car struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	DealerID         uint         `json:"dealerId" gorm:"not null"` // owner, immutable after creation
	Dealer           User         `json:"dealer,omitempty" gorm:"foreignKey:DealerID"`
	Brand            string       `json:"brand" gorm:"not null"`
	Model            string       `json:"model" gorm:"not null"`
	Year             int          `json:"year"`
	Mileage          int          `json:"mileage"`
	Type             string       `json:"type"` // free-form classification (SUV, sedan, ...)
	Location         string       `json:"location"`
	Kind             ListingKind  `json:"kind" gorm:"not null;default:'rent'"`
	PricePerDay      float64      `json:"pricePerDay,omitempty"`
	Availability     Availability `json:"availability,omitempty"`
	SalePrice        float64      `json:"salePrice,omitempty"`
	IsSold           bool         `json:"isSold"`
	BuyerID          *uint        `json:"buyerId,omitempty"`
	Buyer            *User        `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	HandicapFriendly bool         `json:"handicapFriendly"`
	Images           []CarImage   `json:"images,omitempty" gorm:"foreignKey:CarID"`
	Reviews          []Review     `json:"reviews,omitempty" gorm:"foreignKey:CarID"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// EffectivePrice is the price a listing is compared and sorted by:
// the sale price for sale-kind cars, the daily rate for rent-kind cars.
func (c *Car) EffectivePrice() float64 {
	if c.Kind == ListingSale {
		return c.SalePrice
	}
	return c.PricePerDay
}

// CarImage is one entry of a car's ordered image set.
type CarImage struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CarID    uint   `json:"carId" gorm:"not null;index"`
	URL      string `json:"url" gorm:"not null"`
	Position int    `json:"position"`
}

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CarID     uint      `json:"carId" gorm:"not null;index"`
	AuthorID  uint      `json:"authorId" gorm:"not null"`
	Author    User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Rating    int       `json:"rating" gorm:"not null"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
