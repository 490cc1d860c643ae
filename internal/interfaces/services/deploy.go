package services

import (
	"context"

	"github.com/sunr3d/gamedeploy/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Locator --output=../../../mocks
type Locator interface {
	Locate(ctx context.Context) ([]models.Archive, error)
	Inspect(ctx context.Context, path string) (models.Archive, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=TargetResolver --output=../../../mocks
type TargetResolver interface {
	Resolve(ctx context.Context, name, override string) ([]string, error)
	Title(name string) string
}

// Extractor распаковывает один архив в директорию.
type Extractor interface {
	Extract(ctx context.Context, src, dst string) error
}

type ExtractorFunc func(ctx context.Context, src, dst string) error

func (f ExtractorFunc) Extract(ctx context.Context, src, dst string) error {
	return f(ctx, src, dst)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Dispatcher --output=../../../mocks
type Dispatcher interface {
	Dispatch(ctx context.Context, task *models.ArchiveTask) error
	Supports(ext string) bool
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=DeployService --output=../../../mocks
type DeployService interface {
	Run(ctx context.Context, req models.Request) (*models.Report, error)
}
