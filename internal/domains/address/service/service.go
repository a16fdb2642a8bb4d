package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/domains/address/model"
	"charmi-backend/internal/domains/address/repository"
	locationmodel "charmi-backend/internal/domains/location/model"
	locationservice "charmi-backend/internal/domains/location/service"
	"charmi-backend/internal/shared/apperror"
	"charmi-backend/internal/shared/metrics"
)

type addressService struct {
	repo      repository.RepositoryInterface
	locations locationservice.ServiceInterface
}

func NewAddressService(repo repository.RepositoryInterface, locations locationservice.ServiceInterface) ServiceInterface {
	return &addressService{
		repo:      repo,
		locations: locations,
	}
}

// Create validates the payload and the location triple before inserting.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, in *model.AddressInput) (*model.AddressResponse, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	addr := &model.Address{
		UserID:          userID,
		StreetName:      in.StreetName,
		BuildingNumber:  in.BuildingNumber,
		ApartmentNumber: in.ApartmentNumber,
		CountryID:       in.CountryID,
		CityID:          in.CityID,
		DistrictID:      in.DistrictID,
		IsDefault:       in.IsDefault,
	}

	created, err := s.repo.Create(ctx, addr)
	if err != nil {
		return nil, storageError("create address", err)
	}
	if created.IsDefault {
		metrics.DefaultAddressChanges.WithLabelValues("create", metrics.OutcomeSuccess).Inc()
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("address_id", created.ID.String()).
		Bool("is_default", created.IsDefault).
		Msg("address created")

	return s.withNames(ctx, created), nil
}

func (s *addressService) GetByID(ctx context.Context, userID, addressID uuid.UUID) (*model.AddressResponse, error) {
	addr, err := s.getOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, addr), nil
}

// ListByUser returns the default first, then newest first. Never nil.
func (s *addressService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AddressResponse, error) {
	addrs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("list addresses", err)
	}

	responses := make([]*model.AddressResponse, len(addrs))
	for i, addr := range addrs {
		responses[i] = model.ToResponse(addr)
	}
	if len(addrs) == 0 {
		return responses, nil
	}

	triples := make([]locationmodel.Triple, len(addrs))
	for i, addr := range addrs {
		triples[i] = addr.Triple()
	}

	// Names are decoration: a directory failure still returns the addresses.
	names, err := s.locations.ResolveMany(ctx, triples)
	if err != nil || len(names) != len(responses) {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("resolve address names failed")
		return responses, nil
	}
	for i := range responses {
		n := names[i]
		responses[i].Location = &n
	}
	return responses, nil
}

func (s *addressService) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*model.AddressResponse, error) {
	addr, err := s.FindDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withNames(ctx, addr), nil
}

func (s *addressService) FindDefault(ctx context.Context, userID uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.GetDefaultByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("get default address", err)
	}
	if addr == nil {
		return nil, model.ErrNoDefaultAddress
	}
	return addr, nil
}

func (s *addressService) FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	return s.getOwned(ctx, userID, addressID)
}

// Update replaces the editable fields. The default flag is left alone.
func (s *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, in *model.AddressInput) (*model.AddressResponse, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, addressID, &model.Address{
		StreetName:      in.StreetName,
		BuildingNumber:  in.BuildingNumber,
		ApartmentNumber: in.ApartmentNumber,
		CountryID:       in.CountryID,
		CityID:          in.CityID,
		DistrictID:      in.DistrictID,
	})
	if err != nil {
		return nil, storageError("update address", err)
	}
	if updated == nil {
		return nil, model.NewAddressNotFound()
	}
	return s.withNames(ctx, updated), nil
}

// Delete removes the address. Deleting the default leaves the user with none.
func (s *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, addressID); err != nil {
		return storageError("delete address", err)
	}
	log.Info().Str("user_id", userID.String()).Str("address_id", addressID.String()).Msg("address deleted")
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*model.AddressResponse, error) {
	addr, err := s.repo.SetDefault(ctx, userID, addressID)
	if err != nil {
		outcome := metrics.OutcomeFailure
		if apperror.IsNotFound(err) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.DefaultAddressChanges.WithLabelValues("set", outcome).Inc()
		return nil, storageError("set default address", err)
	}
	metrics.DefaultAddressChanges.WithLabelValues("set", metrics.OutcomeSuccess).Inc()

	log.Info().Str("user_id", userID.String()).Str("address_id", addressID.String()).Msg("default address changed")
	return s.withNames(ctx, addr), nil
}

func (s *addressService) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearDefault(ctx, userID); err != nil {
		metrics.DefaultAddressChanges.WithLabelValues("clear", metrics.OutcomeFailure).Inc()
		return storageError("clear default address", err)
	}
	metrics.DefaultAddressChanges.WithLabelValues("clear", metrics.OutcomeSuccess).Inc()
	return nil
}

func (s *addressService) validateInput(ctx context.Context, in *model.AddressInput) error {
	if in == nil {
		return model.NewInvalidInput(nil)
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.NewInvalidInput(err)
	}
	if err := s.locations.ValidateTriple(ctx, in.Triple()); err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			return err
		}
		return model.NewInvalidLocation(err)
	}
	return nil
}

func (s *addressService) getOwned(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, storageError("get address", err)
	}
	if addr == nil || addr.UserID != userID {
		return nil, model.NewAddressNotFound()
	}
	return addr, nil
}

func (s *addressService) withNames(ctx context.Context, addr *model.Address) *model.AddressResponse {
	resp := model.ToResponse(addr)
	names, err := s.locations.ResolveMany(ctx, []locationmodel.Triple{addr.Triple()})
	if err != nil || len(names) != 1 {
		log.Warn().Err(err).Str("address_id", addr.ID.String()).Msg("resolve address names failed")
		return resp
	}
	resp.Location = &names[0]
	return resp
}

// storageError keeps domain errors and hides everything else behind ADDR_500.
func storageError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return model.NewStorageFailure(op, err)
}
