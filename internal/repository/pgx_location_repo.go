package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
)

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	Update(ctx context.Context, location *model.Location) error
	Get(ctx context.Context, id int64) (*model.Location, error)
	// List returns locations ordered by title, optionally only those in the
	// given regions.
	List(ctx context.Context, regionIDs []int64) ([]*model.Location, error)
	// SetLive publishes or unpublishes a location. Publishing stamps
	// last_published_at.
	SetLive(ctx context.Context, id int64, live bool) (*model.Location, error)
	Delete(ctx context.Context, id int64) error
}

type pgxLocationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &pgxLocationRepository{pool: pool}
}

var locationColumns = []any{
	"location.id",
	"location.title",
	"location.slug",
	"location.region_id",
	"location.formatted_address",
	"location.latitude",
	"location.longitude",
	"location.postal_code",
	"location.details",
	"location.live",
	"location.last_published_at",
}

func locationDest(l *model.Location) []any {
	return []any{
		&l.ID, &l.Title, &l.Slug, &l.RegionID, &l.FormattedAddress, &l.Latitude, &l.Longitude,
		&l.PostalCode, &l.Details, &l.Live, &l.LastPublishedAt,
	}
}

func (p *pgxLocationRepository) Create(ctx context.Context, l *model.Location) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("location", "title", "slug", "region_id", "formatted_address", "latitude", "longitude",
			"postal_code", "details", "live", "last_published_at"),
		im.Values(psql.Arg(l.Title), psql.Arg(l.Slug), psql.Arg(l.RegionID), psql.Arg(l.FormattedAddress),
			psql.Arg(l.Latitude), psql.Arg(l.Longitude), psql.Arg(l.PostalCode), psql.Arg(l.Details), psql.Arg(l.Live),
			publishedAt(l.Live)),
		im.Returning("id", "last_published_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.LastPublishedAt))
}

func (p *pgxLocationRepository) Update(ctx context.Context, l *model.Location) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("location"),
		um.SetCol("title").ToArg(l.Title),
		um.SetCol("slug").ToArg(l.Slug),
		um.SetCol("region_id").ToArg(l.RegionID),
		um.SetCol("formatted_address").ToArg(l.FormattedAddress),
		um.SetCol("latitude").ToArg(l.Latitude),
		um.SetCol("longitude").ToArg(l.Longitude),
		um.SetCol("postal_code").ToArg(l.PostalCode),
		um.SetCol("details").ToArg(l.Details),
		um.Where(psql.Quote("id").EQ(psql.Arg(l.ID))),
		um.Returning("live", "last_published_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&l.Live, &l.LastPublishedAt))
}

func (p *pgxLocationRepository) Get(ctx context.Context, id int64) (*model.Location, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(locationColumns...),
		sm.From("location"),
		sm.Where(psql.Quote("location", "id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	l := &model.Location{}
	if err = e.QueryRow(ctx, sql, args...).Scan(locationDest(l)...); err != nil {
		return nil, translateReadError(err)
	}
	return l, nil
}

func (p *pgxLocationRepository) List(ctx context.Context, regionIDs []int64) ([]*model.Location, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(locationColumns...),
		sm.From("location"),
		sm.OrderBy("location.title"),
	)
	if regionIDs != nil {
		q.Apply(sm.Where(psql.Raw("location.region_id = ANY(?)", regionIDs)))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Location, error) {
		l := &model.Location{}
		err := row.Scan(locationDest(l)...)
		return l, err
	})
}

func (p *pgxLocationRepository) SetLive(ctx context.Context, id int64, live bool) (*model.Location, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("location"),
		um.SetCol("live").ToArg(live),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(locationColumns...),
	)
	if live {
		q.Apply(um.SetCol("last_published_at").To(psql.Raw("now()")))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	l := &model.Location{}
	if err = e.QueryRow(ctx, sql, args...).Scan(locationDest(l)...); err != nil {
		return nil, translateReadError(err)
	}
	return l, nil
}

func (p *pgxLocationRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("location"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return translateDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
