package locator_service

import "errors"

var (
	ErrContextDone     = errors.New("отмена контекста")
	ErrArchiveNotFound = errors.New("архив не найден")
	ErrNotAFile        = errors.New("путь не является файлом")
)
