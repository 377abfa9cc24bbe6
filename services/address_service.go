package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
)

type AddressInput struct {
	Alamat    string           `json:"alamat" validate:"required,max=1000"`
	Latitude  *float64         `json:"latitude" validate:"omitnil,gte=-90,lte=90"`
	Longitude *float64         `json:"longitude" validate:"omitnil,gte=-180,lte=180"`
	Accuracy  *models.Accuracy `json:"accuracy" validate:"omitnil,max=50"`
}

// AddressPatch is a partial update. An explicit null clears latitude,
// longitude or accuracy; an absent key leaves them alone.
type AddressPatch struct {
	Alamat    *string                          `json:"alamat" validate:"omitnil,max=1000"`
	Latitude  models.Nullable[float64]         `json:"latitude"`
	Longitude models.Nullable[float64]         `json:"longitude"`
	Accuracy  models.Nullable[models.Accuracy] `json:"accuracy"`
}

func checkRange(fe FieldErrors, field string, v models.Nullable[float64], lo, hi float64) {
	if v.Value == nil {
		return
	}
	switch {
	case *v.Value < lo:
		fe.Add(field, fmt.Sprintf("The %s field must be at least %g.", field, lo))
	case *v.Value > hi:
		fe.Add(field, fmt.Sprintf("The %s field must not be greater than %g.", field, hi))
	}
}

// AddressService manages the caller's own address book. The caller's user id
// goes into every repository call.
type AddressService struct {
	addresses repository.AddressRepository
	now       func() time.Time
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses, now: time.Now}
}

func addressError(err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Address", "Address does not exist")
	}
	return Internal("Failed to "+action+" address", err)
}

func (s *AddressService) List(ctx context.Context, caller models.Identity, page models.PageRequest) (models.Page[models.Address], error) {
	page = page.Normalize()
	addresses, total, err := s.addresses.List(ctx, caller.UserID, page)
	if err != nil {
		return models.Page[models.Address]{}, Internal("Failed to list addresses", err)
	}
	return models.NewPage(addresses, page, total), nil
}

func (s *AddressService) Create(ctx context.Context, caller models.Identity, in AddressInput) (*models.Address, error) {
	in.Alamat = strings.TrimSpace(in.Alamat)
	fe := FieldErrors{}
	validateStruct(in, fe)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	address := &models.Address{
		UserID:    caller.UserID,
		Alamat:    in.Alamat,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Accuracy:  in.Accuracy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, Internal("Failed to create address", err)
	}
	return address, nil
}

func (s *AddressService) Get(ctx context.Context, caller models.Identity, id string) (*models.Address, error) {
	address, err := s.addresses.FindByID(ctx, caller.UserID, id)
	if err != nil {
		return nil, addressError(err, "load")
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, caller models.Identity, id string, patch AddressPatch) (*models.Address, error) {
	fe := FieldErrors{}
	if patch.Alamat != nil {
		alamat := strings.TrimSpace(*patch.Alamat)
		patch.Alamat = &alamat
		if alamat == "" {
			fe.Add("alamat", "The alamat field is required.")
		}
	}
	checkRange(fe, "latitude", patch.Latitude, -90, 90)
	checkRange(fe, "longitude", patch.Longitude, -180, 180)
	if patch.Accuracy.Value != nil && len(*patch.Accuracy.Value) > 50 {
		fe.Add("accuracy", "The accuracy field must not be greater than 50 characters.")
	}
	validateStruct(patch, fe)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	update := models.AddressUpdate{
		Alamat:    patch.Alamat,
		Latitude:  patch.Latitude,
		Longitude: patch.Longitude,
		Accuracy:  patch.Accuracy,
	}
	address, err := s.addresses.Update(ctx, caller.UserID, id, update)
	if err != nil {
		return nil, addressError(err, "update")
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, caller models.Identity, id string) error {
	if err := s.addresses.Delete(ctx, caller.UserID, id); err != nil {
		return addressError(err, "delete")
	}
	return nil
}
