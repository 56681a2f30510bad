package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/pbl-lab/pblview/pkg/domain/model"
)

// Handle logs an application error with its goerr context values.
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)
	logger.Error("application error", "error", err)
}

// HTTPStatus maps domain errors to a response status. Malformed input
// (periods, quarter labels) is a caller bug and reports 400; a missing
// snapshot is 404; everything else is a server-side failure.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidPeriod), errors.Is(err, model.ErrInvalidQuarterLabel):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSnapshotNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
