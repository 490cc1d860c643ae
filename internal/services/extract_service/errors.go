package extract_service

import "errors"

var (
	ErrContextDone       = errors.New("отмена контекста")
	ErrUnsupportedFormat = errors.New("неподдерживаемый формат архива")
	ErrExtractFailed     = errors.New("не удалось распаковать архив")
	ErrIllegalPath       = errors.New("путь внутри архива выходит за пределы директории")

	ErrMkdirFailed      = errors.New("не удалось создать директорию")
	ErrFileCreateFailed = errors.New("не удалось создать файл")
	ErrFileOpenFailed   = errors.New("не удалось открыть файл")
	ErrFileCopyFailed   = errors.New("не удалось скопировать файл")
)
