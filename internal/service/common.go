package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/validation"
)

// CacheInvalidator drops cached public responses after content changes.
type CacheInvalidator interface {
	Flush()
}

type nopInvalidator struct{}

func (nopInvalidator) Flush() {}

// writer carries what every editing service needs: a transactor, the field
// validator and the public cache to flush on change.
type writer struct {
	tx       db.Transactor
	validate *validator.Validate
	cache    CacheInvalidator
}

func newWriter(tx db.Transactor) writer {
	return writer{
		tx:       tx,
		validate: validation.New(),
		cache:    nopInvalidator{},
	}
}

func (w *writer) check(v any) *Error {
	if err := w.validate.Struct(v); err != nil {
		return NewValidationError(err)
	}
	return nil
}

// inTx runs fn in a transaction and unwraps the *Error it returned.
func (w *writer) inTx(ctx context.Context, fn func(ctx context.Context) error) *Error {
	err := w.tx.WithinTransaction(ctx, fn)
	if err == nil {
		return nil
	}

	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return NewError(ErrorCodeUnspecified, "transaction failed")
}

// maxSlugLength matches the slug columns.
const maxSlugLength = 255

// slugify derives a slug from title. Transliteration can grow the text
// ("&" becomes "and"), so the result is cut back to the column width.
func slugify(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}
