package server

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/errtypes"
)

// toStatus maps the error taxonomy onto gRPC status codes. Anything
// outside the taxonomy is an internal fault; its detail is logged but
// not leaked to the client.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}

	var (
		notFound     errtypes.IsNotFound
		precondition errtypes.IsPrecondition
		corruption   errtypes.IsDataCorruption
		aborted      errtypes.IsAborted
	)
	switch {
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &precondition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &corruption):
		return status.Error(codes.DataLoss, err.Error())
	case errors.As(err, &aborted):
		return status.Error(codes.Aborted, err.Error())
	default:
		logger.Error("internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
