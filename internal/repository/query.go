package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/yakoovad/meeting-guide/internal/model"
)

type selectQuery = bob.BaseQuery[*dialect.SelectQuery]

func toPgTime(t *model.ClockTime) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(*t) * 60 * 1_000_000, Valid: true}
}

func fromPgTime(t pgtype.Time) *model.ClockTime {
	if !t.Valid {
		return nil
	}
	c := model.ClockTime(t.Microseconds / (60 * 1_000_000))
	return &c
}

// publishedAt is the last_published_at value of a new row: the insert time
// when it is created live, NULL otherwise.
func publishedAt(live bool) psql.Expression {
	if live {
		return psql.Raw("now()")
	}
	return psql.Arg(nil)
}
