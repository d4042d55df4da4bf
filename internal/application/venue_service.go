package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/venue"
)

type VenueService struct {
	venueRepo venue.Repository
}

func NewVenueService(venueRepo venue.Repository) *VenueService {
	return &VenueService{venueRepo: venueRepo}
}

type CreateVenueInput struct {
	Name         string
	Address      string
	City         string
	State        string
	Pincode      string
	Capacity     int
	ContactPhone string
}

func (s *VenueService) CreateVenue(ctx context.Context, input CreateVenueInput) (*venue.Venue, error) {
	v := venue.NewVenue(input.Name, input.Address, input.City, input.State, input.Pincode, input.ContactPhone, input.Capacity)
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.venueRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return v, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	return s.venueRepo.GetByID(ctx, id)
}

func (s *VenueService) ListVenues(ctx context.Context, city string) ([]*venue.Venue, error) {
	return s.venueRepo.List(ctx, city)
}
