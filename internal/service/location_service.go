package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/geocode"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Result, error)
}

type LocationService struct {
	writer

	regions   repository.RegionRepository
	locations repository.LocationRepository

	geocoder Geocoder
}

func NewLocationService(tx db.Transactor) *LocationService {
	return &LocationService{writer: newWriter(tx)}
}

// prepare validates a location before it is written and fills the derived
// fields: slug, region path and, when a geocoder is configured, coordinates.
func (s *LocationService) prepare(ctx context.Context, location *model.Location) (*Error, *regionIndex) {
	l := logger.FromContext(ctx)

	if err := s.check(location); err != nil {
		return err, nil
	}

	regions, err := s.regions.List(ctx)
	if err != nil {
		l.Error("failed to list regions", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to list regions"), nil
	}
	idx := newRegionIndex(regions)

	region, ok := idx.byID[location.RegionID]
	if !ok {
		return NewError(ErrorCodeValidationFailed, "region not found"), nil
	}
	if region.IsRoot() {
		return NewError(ErrorCodeValidationFailed, "locations must be placed in a sub-region"), nil
	}

	if location.Slug == "" {
		location.Slug = slugify(location.Title)
	}

	if s.geocoder != nil && location.FormattedAddress != nil && !location.HasCoordinates() {
		s.geocodeLocation(ctx, location)
	}

	return nil, idx
}

func (s *LocationService) geocodeLocation(ctx context.Context, location *model.Location) {
	l := logger.FromContext(ctx)

	res, err := s.geocoder.Geocode(ctx, *location.FormattedAddress)
	if err != nil {
		l.Warn("failed to geocode location", zap.String("address", *location.FormattedAddress), zap.Error(err))
		return
	}
	if !res.Found() {
		l.Warn("address not found by geocoder", zap.String("address", *location.FormattedAddress), zap.String("problem", res.Problem))
		return
	}

	location.FormattedAddress = &res.FormattedAddress
	location.Latitude = &res.Lat
	location.Longitude = &res.Lng
	if postal, ok := res.Components["postal_code"]; ok && location.PostalCode == "" {
		location.PostalCode = postal
	}
}

func (s *LocationService) CreateLocation(ctx context.Context, location *model.Location) *Error {
	l := logger.FromContext(ctx)
	l.Info("creating location", zap.String("title", location.Title), zap.Int64("region_id", location.RegionID))

	e, idx := s.prepare(ctx, location)
	if e != nil {
		return e
	}

	err := s.locations.Create(ctx, location)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return NewError(ErrorCodeAlreadyExists, "a location with this slug already exists")
	case err != nil:
		l.Error("failed to create location", zap.String("title", location.Title), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to create location")
	}

	location.RegionPath = idx.path(location.RegionID)
	if location.Live {
		s.cache.Flush()
	}
	return nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, location *model.Location) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating location", zap.Int64("location_id", location.ID))

	e, idx := s.prepare(ctx, location)
	if e != nil {
		return e
	}

	err := s.locations.Update(ctx, location)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "location not found")
	case errors.Is(err, repository.ErrAlreadyExists):
		return NewError(ErrorCodeAlreadyExists, "a location with this slug already exists")
	case err != nil:
		l.Error("failed to update location", zap.Int64("location_id", location.ID), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to update location")
	}

	location.RegionPath = idx.path(location.RegionID)
	s.cache.Flush()
	return nil
}

func (s *LocationService) GetLocation(ctx context.Context, id int64) (*model.Location, *Error) {
	l := logger.FromContext(ctx)

	location, err := s.locations.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "location not found")
	case err != nil:
		l.Error("failed to get location", zap.Int64("location_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get location")
	}

	regions, err := s.regions.List(ctx)
	if err != nil {
		l.Error("failed to list regions", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list regions")
	}
	location.RegionPath = newRegionIndex(regions).path(location.RegionID)

	return location, nil
}

// ListLocations returns locations ordered by title. With regionID set only
// locations in that region or below it are returned.
func (s *LocationService) ListLocations(ctx context.Context, regionID *int64) ([]*model.Location, *Error) {
	l := logger.FromContext(ctx)

	regions, err := s.regions.List(ctx)
	if err != nil {
		l.Error("failed to list regions", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list regions")
	}
	idx := newRegionIndex(regions)

	var regionIDs []int64
	if regionID != nil {
		if _, ok := idx.byID[*regionID]; !ok {
			return nil, NewError(ErrorCodeNotFound, "region not found")
		}
		regionIDs = idx.descendants(*regionID)
	}

	locations, err := s.locations.List(ctx, regionIDs)
	if err != nil {
		l.Error("failed to list locations", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list locations")
	}
	for _, location := range locations {
		location.RegionPath = idx.path(location.RegionID)
	}
	return locations, nil
}

// SetLocationLive publishes or unpublishes a location. Meetings of an
// unpublished location drop out of the public listing.
func (s *LocationService) SetLocationLive(ctx context.Context, id int64, live bool) (*model.Location, *Error) {
	l := logger.FromContext(ctx)
	l.Info("changing location publication", zap.Int64("location_id", id), zap.Bool("live", live))

	location, err := s.locations.SetLive(ctx, id, live)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "location not found")
	case err != nil:
		l.Error("failed to change location publication", zap.Int64("location_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to change location publication")
	}

	s.cache.Flush()
	return location, nil
}

// DeleteLocation removes a location together with its meetings.
func (s *LocationService) DeleteLocation(ctx context.Context, id int64) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting location", zap.Int64("location_id", id))

	err := s.locations.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "location not found")
	case err != nil:
		l.Error("failed to delete location", zap.Int64("location_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete location")
	}

	s.cache.Flush()
	return nil
}

// GeocodeAddress looks an address up without saving anything.
func (s *LocationService) GeocodeAddress(ctx context.Context, address string) (*geocode.Result, *Error) {
	if s.geocoder == nil {
		return nil, NewError(ErrorCodeUnspecified, "geocoding is not configured")
	}

	res, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		logger.FromContext(ctx).Error("failed to geocode address", zap.String("address", address), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to geocode address")
	}
	return res, nil
}

func (s *LocationService) WithRegionRepo(r repository.RegionRepository) *LocationService {
	s.regions = r
	return s
}

func (s *LocationService) WithLocationRepo(r repository.LocationRepository) *LocationService {
	s.locations = r
	return s
}

func (s *LocationService) WithGeocoder(g Geocoder) *LocationService {
	s.geocoder = g
	return s
}

func (s *LocationService) WithCache(c CacheInvalidator) *LocationService {
	s.cache = c
	return s
}
