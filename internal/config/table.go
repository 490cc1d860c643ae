package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package связывает логическое имя архива с путём конфигурации игры.
// Path задаётся через "/" относительно корня тома.
type Package struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

// Messages - шаблоны сообщений для журнала ошибок (fmt-глаголы указаны в комментариях).
// Журнал читает пользователь клиента, поэтому тексты по умолчанию на китайском.
type Messages struct {
	ArchiveWithPackages string `yaml:"archive_with_packages"`
	DirectorySources    string `yaml:"directory_sources"`
	NotFound            string `yaml:"not_found"`         // имена, расширения
	PackageNotFound     string `yaml:"package_not_found"` // имена, расширения
	ArchiveMissing      string `yaml:"archive_missing"`   // путь
	NoTargets           string `yaml:"no_targets"`        // название игры
	Unsupported         string `yaml:"unsupported"`       // путь
	ExtractFailed       string `yaml:"extract_failed"`    // архив, директория, ошибка
	ListSeparator       string `yaml:"list_separator"`
}

type Table struct {
	Packages   []Package `yaml:"packages"`
	Extensions []string  `yaml:"extensions"`
	Messages   Messages  `yaml:"messages"`
}

func DefaultMessages() Messages {
	return Messages{
		ArchiveWithPackages: "-a 参数不能与 -p 参数同时使用",
		DirectorySources:    "-d 参数必须与 -p 或 -a 参数一起使用，且只能指定一个压缩包",
		NotFound:            "当前目录下没有任何名为 %s 的压缩包（%s）",
		PackageNotFound:     "当前目录下没有任何名为 %s 的压缩包（%s），请检查指定的参数",
		ArchiveMissing:      "未找到压缩包 %s",
		NoTargets:           "未找到 %s 的目标目录用于解压，请使用 -p 指定当前目录下的压缩包名称，-d 指定解压目录",
		Unsupported:         "%s 是不支持的文件格式",
		ExtractFailed:       "解压失败（%s -> %s）：%v",
		ListSeparator:       "、",
	}
}

// merge заполняет незаданные шаблоны значениями по умолчанию.
func (m *Messages) merge(def Messages) {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&m.ArchiveWithPackages, def.ArchiveWithPackages)
	fill(&m.DirectorySources, def.DirectorySources)
	fill(&m.NotFound, def.NotFound)
	fill(&m.PackageNotFound, def.PackageNotFound)
	fill(&m.ArchiveMissing, def.ArchiveMissing)
	fill(&m.NoTargets, def.NoTargets)
	fill(&m.Unsupported, def.Unsupported)
	fill(&m.ExtractFailed, def.ExtractFailed)
	fill(&m.ListSeparator, def.ListSeparator)
}

func DefaultTable() *Table {
	return &Table{
		Packages: []Package{
			{Name: "WindowsClient", Title: "三角洲行动", Path: "网络游戏/三角洲行动/DeltaForce/Saved/Config"},
			{Name: "Windows", Title: "无畏契约", Path: "网络游戏/无畏契约/live/ShooterGame/Saved/Config"},
		},
		Extensions: []string{"zip", "rar", "7z"},
		Messages:   DefaultMessages(),
	}
}

// LoadTable читает таблицу из YAML. Отсутствующий файл - таблица по умолчанию.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultTable(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrTableRead, err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableRead, err)
	}

	if len(t.Packages) == 0 {
		t.Packages = DefaultTable().Packages
	}
	if len(t.Extensions) == 0 {
		t.Extensions = DefaultTable().Extensions
	}
	t.Messages.merge(DefaultMessages())
	for i, ext := range t.Extensions {
		t.Extensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}
	for _, p := range t.Packages {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Path) == "" {
			return nil, fmt.Errorf("%w: пакет без имени или пути", ErrInvalidConfig)
		}
	}

	return &t, nil
}

// Lookup ищет пакет по имени без учёта регистра.
func (t *Table) Lookup(name string) (Package, bool) {
	for _, p := range t.Packages {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Package{}, false
}

func (t *Table) HasExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range t.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Packages))
	for _, p := range t.Packages {
		names = append(names, p.Name)
	}
	return names
}
