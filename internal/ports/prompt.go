package ports

import (
	"context"

	"github.com/Jelmerro/nus/internal/types"
)

// PrompterPort asks the operator to pick one version. Implementations
// return an error with errbuilder.CodeCanceled when the operator aborts.
type PrompterPort interface {
	Select(ctx context.Context, request types.SelectRequest) (string, error)
}
