package infra

import "context"

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=VolumeLister --output=../../../mocks
type VolumeLister interface {
	// Volumes возвращает корни доступных томов, например "E:\".
	Volumes(ctx context.Context) ([]string, error)
}
