package resolver_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")
	ErrVolumes     = errors.New("не удалось получить список томов")
)
