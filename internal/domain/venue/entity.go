package venue

import "time"

// Venue は会場エンティティを表す
type Venue struct {
	ID           string
	Name         string
	Address      string
	City         string
	State        string
	Pincode      string
	Capacity     int
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVenue は新しい会場を作成する
func NewVenue(name, address, city, state, pincode, contactPhone string, capacity int) *Venue {
	now := time.Now()
	return &Venue{
		Name:         name,
		Address:      address,
		City:         city,
		State:        state,
		Pincode:      pincode,
		Capacity:     capacity,
		ContactPhone: contactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RemainingCapacity は収容人数に対して未登録の座席数を返す
func (v *Venue) RemainingCapacity(existingSeats int) int {
	if existingSeats >= v.Capacity {
		return 0
	}
	return v.Capacity - existingSeats
}

// Validate は会場の検証を行う
func (v *Venue) Validate() error {
	if v.Name == "" {
		return ErrVenueNameRequired
	}
	if v.Address == "" {
		return ErrAddressRequired
	}
	if v.City == "" {
		return ErrCityRequired
	}
	if v.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
