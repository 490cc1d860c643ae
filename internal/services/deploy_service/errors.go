package deploy_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrInvocation = errors.New("некорректные параметры запуска")
	ErrNotFound   = errors.New("архивы не найдены")
	ErrNoTargets  = errors.New("целевая директория не найдена")
	ErrExtract    = errors.New("ошибка распаковки")

	ErrArchiveWithPackages = errors.New("-a нельзя использовать вместе с -p")
	ErrDirectorySources    = errors.New("-d используется только вместе с одним архивом, указанным через -p или -a")
)
