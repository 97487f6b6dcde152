package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
)

type MeetingTypeRepository interface {
	Create(ctx context.Context, t *model.MeetingType) error
	Update(ctx context.Context, t *model.MeetingType) error
	Get(ctx context.Context, id int64) (*model.MeetingType, error)
	GetBySpecCode(ctx context.Context, code string) (*model.MeetingType, error)
	// List returns types ordered by display order then name. With ids set,
	// only those types are returned.
	List(ctx context.Context, ids []int64) ([]*model.MeetingType, error)
	Delete(ctx context.Context, id int64) error
}

type pgxMeetingTypeRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMeetingTypeRepository(pool *pgxpool.Pool) MeetingTypeRepository {
	return &pgxMeetingTypeRepository{pool: pool}
}

var meetingTypeColumns = []any{
	"meeting_type.id",
	"meeting_type.type_name",
	"meeting_type.intergroup_code",
	"meeting_type.spec_code",
	"meeting_type.display_order",
}

func scanMeetingType(row pgx.Row, extra ...any) (*model.MeetingType, error) {
	t := &model.MeetingType{}
	dest := append([]any{&t.ID, &t.TypeName, &t.IntergroupCode, &t.SpecCode, &t.DisplayOrder}, extra...)
	err := row.Scan(dest...)
	return t, err
}

func (p *pgxMeetingTypeRepository) Create(ctx context.Context, t *model.MeetingType) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("meeting_type", "type_name", "intergroup_code", "spec_code", "display_order"),
		im.Values(psql.Arg(t.TypeName), psql.Arg(t.IntergroupCode), psql.Arg(t.SpecCode), psql.Arg(t.DisplayOrder)),
		im.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&t.ID))
}

func (p *pgxMeetingTypeRepository) Update(ctx context.Context, t *model.MeetingType) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("meeting_type"),
		um.SetCol("type_name").ToArg(t.TypeName),
		um.SetCol("intergroup_code").ToArg(t.IntergroupCode),
		um.SetCol("spec_code").ToArg(t.SpecCode),
		um.SetCol("display_order").ToArg(t.DisplayOrder),
		um.Where(psql.Quote("id").EQ(psql.Arg(t.ID))),
		um.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&t.ID))
}

func (p *pgxMeetingTypeRepository) Get(ctx context.Context, id int64) (*model.MeetingType, error) {
	return p.getOne(ctx, psql.Quote("meeting_type", "id").EQ(psql.Arg(id)))
}

func (p *pgxMeetingTypeRepository) GetBySpecCode(ctx context.Context, code string) (*model.MeetingType, error) {
	return p.getOne(ctx, psql.Quote("meeting_type", "spec_code").EQ(psql.Arg(code)))
}

func (p *pgxMeetingTypeRepository) getOne(ctx context.Context, where bob.Expression) (*model.MeetingType, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(meetingTypeColumns...),
		sm.From("meeting_type"),
		sm.Where(where),
		sm.OrderBy("meeting_type.id"),
		sm.Limit(1),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanMeetingType(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err)
	}
	return t, nil
}

func (p *pgxMeetingTypeRepository) List(ctx context.Context, ids []int64) ([]*model.MeetingType, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(meetingTypeColumns...),
		sm.From("meeting_type"),
		sm.OrderBy("meeting_type.display_order"),
		sm.OrderBy("meeting_type.type_name"),
	)
	if ids != nil {
		q.Apply(sm.Where(psql.Raw("meeting_type.id = ANY(?)", ids)))
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.MeetingType, error) {
		return scanMeetingType(row)
	})
}

func (p *pgxMeetingTypeRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("meeting_type"),
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
