package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	"eco-service/internal/scoring"
	"eco-service/internal/service/repository"
)

// fail logs err and converts it to a gRPC status carrying the matching code.
func (s *Service) fail(ctx context.Context, err error, fields ...zap.Field) error {
	return s.Error(ctx, err, errorCode(err), fields...)
}

func errorCode(err error) codes.Code {
	var (
		validationErr *scoring.ValidationError
		answerErr     *scoring.InvalidAnswerError
		rangeErr      *scoring.OutOfRangeError
		storageErr    *repository.StorageError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &answerErr), errors.As(err, &rangeErr):
		return codes.InvalidArgument
	case errors.Is(err, repository.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.As(err, &storageErr):
		if storageErr.Op == "ping" {
			return codes.Unavailable
		}
		return codes.Internal
	}
	return codes.Internal
}

// validationError reduces validator output to the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &scoring.ValidationError{Field: "request", Reason: err.Error()}
	}
	fe := fieldErrs[0]
	reason := fe.Tag()
	if fe.Param() != "" {
		reason = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
	}
	return &scoring.ValidationError{Field: fe.Field(), Reason: reason}
}
