package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

type RegionService struct {
	writer

	regions   repository.RegionRepository
	locations repository.LocationRepository
}

func NewRegionService(tx db.Transactor) *RegionService {
	return &RegionService{writer: newWriter(tx)}
}

func (r *RegionService) index(ctx context.Context) (*regionIndex, []*model.Region, *Error) {
	regions, err := r.regions.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list regions", zap.Error(err))
		return nil, nil, NewError(ErrorCodeUnspecified, "failed to list regions")
	}
	return newRegionIndex(regions), regions, nil
}

func (r *RegionService) CreateRegion(ctx context.Context, region *model.Region) *Error {
	l := logger.FromContext(ctx)
	l.Info("creating region", zap.String("name", region.Name))

	if err := r.check(region); err != nil {
		return err
	}

	e := r.inTx(ctx, func(txCtx context.Context) error {
		idx, _, e := r.index(txCtx)
		if e != nil {
			return e
		}
		if region.ParentID != nil {
			if _, ok := idx.byID[*region.ParentID]; !ok {
				return NewError(ErrorCodeValidationFailed, "parent region not found")
			}
		}

		if err := r.regions.Create(txCtx, region); err != nil {
			l.Error("failed to create region", zap.String("name", region.Name), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create region")
		}

		idx.byID[region.ID] = region
		region.Path = idx.path(region.ID)
		return nil
	})
	if e != nil {
		return e
	}

	r.cache.Flush()
	return nil
}

func (r *RegionService) UpdateRegion(ctx context.Context, region *model.Region) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating region", zap.Int64("region_id", region.ID))

	if err := r.check(region); err != nil {
		return err
	}

	e := r.inTx(ctx, func(txCtx context.Context) error {
		idx, _, e := r.index(txCtx)
		if e != nil {
			return e
		}
		current, ok := idx.byID[region.ID]
		if !ok {
			return NewError(ErrorCodeNotFound, "region not found")
		}
		if region.ParentID == nil && current.ParentID != nil {
			if e := r.checkNoLocations(txCtx, region.ID); e != nil {
				return e
			}
		}
		if region.ParentID != nil {
			if _, ok := idx.byID[*region.ParentID]; !ok {
				return NewError(ErrorCodeValidationFailed, "parent region not found")
			}
			if idx.isDescendant(*region.ParentID, region.ID) {
				return NewError(ErrorCodeValidationFailed, "a region cannot be moved below itself")
			}
		}

		err := r.regions.Update(txCtx, region)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeNotFound, "region not found")
		case err != nil:
			l.Error("failed to update region", zap.Int64("region_id", region.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update region")
		}

		idx.byID[region.ID] = region
		region.Path = idx.path(region.ID)
		return nil
	})
	if e != nil {
		return e
	}

	r.cache.Flush()
	return nil
}

// checkNoLocations rejects turning a region holding locations into a root
// region, since locations may only sit in non-root regions.
func (r *RegionService) checkNoLocations(ctx context.Context, id int64) *Error {
	locations, err := r.locations.List(ctx, []int64{id})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list region locations", zap.Int64("region_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to update region")
	}
	if len(locations) > 0 {
		return NewError(ErrorCodeValidationFailed, "a region holding locations cannot become a root region")
	}
	return nil
}

// DeleteRegion removes a region and its sub-regions. Regions still holding
// locations are protected.
func (r *RegionService) DeleteRegion(ctx context.Context, id int64) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting region", zap.Int64("region_id", id))

	err := r.regions.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "region not found")
	case errors.Is(err, repository.ErrProtected):
		l.Warn("region still has locations", zap.Int64("region_id", id))
		return NewError(ErrorCodeProtected, "region or one of its sub-regions still has locations")
	case err != nil:
		l.Error("failed to delete region", zap.Int64("region_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete region")
	}

	r.cache.Flush()
	return nil
}

func (r *RegionService) GetRegion(ctx context.Context, id int64) (*model.Region, *Error) {
	idx, _, e := r.index(ctx)
	if e != nil {
		return nil, e
	}

	region, ok := idx.byID[id]
	if !ok {
		return nil, NewError(ErrorCodeNotFound, "region not found")
	}
	region.Path = idx.path(id)
	return region, nil
}

// ListRegions returns regions ordered by name. With parentID set only its
// direct children are returned.
func (r *RegionService) ListRegions(ctx context.Context, parentID *int64) ([]*model.Region, *Error) {
	idx, regions, e := r.index(ctx)
	if e != nil {
		return nil, e
	}

	res := make([]*model.Region, 0, len(regions))
	for _, region := range regions {
		if parentID != nil && (region.ParentID == nil || *region.ParentID != *parentID) {
			continue
		}
		region.Path = idx.path(region.ID)
		res = append(res, region)
	}
	return res, nil
}

// RegionTree returns the nested region structure, siblings ordered by name.
func (r *RegionService) RegionTree(ctx context.Context) ([]*model.RegionNode, *Error) {
	_, regions, e := r.index(ctx)
	if e != nil {
		return nil, e
	}
	return model.BuildRegionTree(regions), nil
}

func (r *RegionService) WithRegionRepo(repo repository.RegionRepository) *RegionService {
	r.regions = repo
	return r
}

func (r *RegionService) WithLocationRepo(repo repository.LocationRepository) *RegionService {
	r.locations = repo
	return r
}

func (r *RegionService) WithCache(c CacheInvalidator) *RegionService {
	r.cache = c
	return r
}
