// model/vehicle.go
package model

// Vehicle is the read-only snapshot the booking engine needs at pricing
// time. Listing CRUD lives outside this service.
type Vehicle struct {
	ID             int64  `json:"id"`
	OwnerID        int64  `json:"owner_id"`
	Name           string `json:"name"`
	PricePerDay    int64  `json:"price_per_day"`
	Deposit        int64  `json:"deposit"`
	ReservationFee int64  `json:"reservation_fee"`
	DeliveryFee    int64  `json:"delivery_fee"`
}
