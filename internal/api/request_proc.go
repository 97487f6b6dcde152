package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/meeting-guide/internal/service"
)

// ProcessRequest runs the binding steps for req in order and stops at the
// first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) *service.Error) *service.Error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

// withPathID stores the ":id" path parameter through set.
func withPathID[T any](set func(*T, int64)) func(echo.Context, *T) *service.Error {
	return func(e echo.Context, req *T) *service.Error {
		id, err := pathID(e)
		if err != nil {
			return err
		}
		set(req, id)
		return nil
	}
}

func decodeBody[T any](e echo.Context, req *T) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "invalid request body")
	}
	if err := e.Validate(req); err != nil {
		return service.NewValidationError(err)
	}
	return nil
}

func pathID(e echo.Context) (int64, *service.Error) {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewError(service.ErrorCodeInvalidBody, "invalid id")
	}
	return id, nil
}

// queryInt64 parses an optional numeric query parameter.
func queryInt64(e echo.Context, name string) (*int64, *service.Error) {
	raw := e.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, service.NewError(service.ErrorCodeInvalidBody, "invalid "+name+" parameter")
	}
	return &v, nil
}
