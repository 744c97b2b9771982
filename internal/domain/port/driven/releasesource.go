package driven

import (
	"context"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

// ReleaseSource looks up the newest published release of the application.
type ReleaseSource interface {
	LatestRelease(ctx context.Context) (*model.Release, error)
}
