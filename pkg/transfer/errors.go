package transfer

import (
	"context"
	"errors"

	"github.com/3leaps/gohotfolder/pkg/output"
	"github.com/3leaps/gohotfolder/pkg/provider"
)

// ClassifyError maps a copy error to an output error code.
func ClassifyError(err error) string {
	var sizeErr *SizeMismatchError
	switch {
	case err == nil:
		return ""
	case provider.IsNotFound(err):
		return output.ErrCodeNotFound
	case provider.IsAccessDenied(err):
		return output.ErrCodeAccessDenied
	case provider.IsProviderUnavailable(err):
		return output.ErrCodeProviderUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return output.ErrCodeTimeout
	case errors.As(err, &sizeErr):
		return output.ErrCodeSourceChanged
	default:
		return output.ErrCodeInternal
	}
}
