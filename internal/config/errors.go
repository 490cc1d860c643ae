package config

import "errors"

var (
	ErrInvalidConfig = errors.New("некорректная конфигурация")
	ErrTableRead     = errors.New("не удалось прочитать таблицу пакетов")
	ErrTableEmpty    = errors.New("таблица пакетов пуста")
)
