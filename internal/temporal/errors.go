package temporal

import (
	"errors"
	"fmt"

	"github.com/rpggio/temporal-xray/internal/domain/history"
	"go.temporal.io/api/serviceerror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNamespaceNotFound = errors.New("namespace not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnavailable       = errors.New("temporal server unavailable")
)

// classify maps workflow service errors onto the package sentinels,
// keeping the original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var nsNotFound *serviceerror.NamespaceNotFound
	var notFound *serviceerror.NotFound
	var denied *serviceerror.PermissionDenied
	var unavailable *serviceerror.Unavailable
	switch {
	case errors.As(err, &nsNotFound):
		return fmt.Errorf("%w: %w", ErrNamespaceNotFound, err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %w", history.ErrExecutionNotFound, err)
	case errors.As(err, &denied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.As(err, &unavailable):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", history.ErrExecutionNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case codes.Unavailable:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
