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

type RegionRepository interface {
	Create(ctx context.Context, region *model.Region) error
	Update(ctx context.Context, region *model.Region) error
	Get(ctx context.Context, id int64) (*model.Region, error)
	// List returns every region ordered by name.
	List(ctx context.Context) ([]*model.Region, error)
	Delete(ctx context.Context, id int64) error
}

type pgxRegionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRegionRepository(pool *pgxpool.Pool) RegionRepository {
	return &pgxRegionRepository{pool: pool}
}

func (p *pgxRegionRepository) Create(ctx context.Context, region *model.Region) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("region", "name", "parent_id"),
		im.Values(psql.Arg(region.Name), psql.Arg(region.ParentID)),
		im.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&region.ID))
}

func (p *pgxRegionRepository) Update(ctx context.Context, region *model.Region) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("region"),
		um.SetCol("name").ToArg(region.Name),
		um.SetCol("parent_id").ToArg(region.ParentID),
		um.Where(psql.Quote("id").EQ(psql.Arg(region.ID))),
		um.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&region.ID))
}

func (p *pgxRegionRepository) Get(ctx context.Context, id int64) (*model.Region, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "parent_id"),
		sm.From("region"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	r := &model.Region{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&r.ID, &r.Name, &r.ParentID); err != nil {
		return nil, translateReadError(err)
	}
	return r, nil
}

func (p *pgxRegionRepository) List(ctx context.Context) ([]*model.Region, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "parent_id"),
		sm.From("region"),
		sm.OrderBy("name"),
		sm.OrderBy("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Region, error) {
		r := &model.Region{}
		err := row.Scan(&r.ID, &r.Name, &r.ParentID)
		return r, err
	})
}

func (p *pgxRegionRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("region"),
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
