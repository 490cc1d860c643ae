package extract_service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/mholt/archiver/v3"
	"github.com/nwaples/rardecode"
)

// pathWalker - общая часть archiver.Zip и archiver.Rar, нужная для проверки путей.
type pathWalker interface {
	Walk(archive string, walkFn archiver.WalkFunc) error
	CheckPath(to, filename string) error
}

func extractZip(ctx context.Context, src, dst string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true

	return unarchiveChecked(z, z.Unarchive, src, dst)
}

func extractRar(ctx context.Context, src, dst string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	r := archiver.NewRar()
	r.OverwriteExisting = true
	r.MkdirAll = true

	return unarchiveChecked(r, r.Unarchive, src, dst)
}

// unarchiveChecked распаковывает архив, не давая записям выйти за пределы dst.
// Записи, которые archiver сам пропускает, он только пишет в лог, поэтому
// они возвращаются как ErrIllegalPath после распаковки остальных. Записи, которые
// его проверка пропустила бы наружу, прерывают распаковку до её начала.
func unarchiveChecked(w pathWalker, unarchive func(src, dst string) error, src, dst string) error {
	skipped, escaping, err := illegalEntries(w, src, dst)
	if err != nil {
		return err
	}
	if len(escaping) > 0 {
		return fmt.Errorf("%w: %s", ErrIllegalPath, strings.Join(escaping, ", "))
	}

	if err := unarchive(src, dst); err != nil {
		return err
	}

	if len(skipped) > 0 {
		return fmt.Errorf("%w: пропущено записей %d: %s", ErrIllegalPath, len(skipped), strings.Join(skipped, ", "))
	}
	return nil
}

func illegalEntries(w pathWalker, src, dst string) (skipped, escaping []string, err error) {
	err = w.Walk(src, func(f archiver.File) error {
		name := entryName(f)
		if _, err := securePath(dst, name); err == nil {
			return nil
		}
		if w.CheckPath(dst, name) != nil {
			skipped = append(skipped, name)
		} else {
			escaping = append(escaping, name)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return skipped, escaping, nil
}

func entryName(f archiver.File) string {
	switch h := f.Header.(type) {
	case zip.FileHeader:
		return h.Name
	case *rardecode.FileHeader:
		return h.Name
	default:
		return f.Name()
	}
}

func extract7z(ctx context.Context, src, dst string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOpenFailed, err)
	}
	defer r.Close()

	for _, f := range r.File {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		default:
		}

		if err := extract7zEntry(f, dst); err != nil {
			return err
		}
	}

	return nil
}

func extract7zEntry(f *sevenzip.File, dst string) error {
	target, err := securePath(dst, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpenFailed, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: %s: %v", ErrFileCopyFailed, f.Name, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileCopyFailed, f.Name, err)
	}

	return nil
}

// securePath соединяет dst и имя записи архива, не выпуская результат за пределы dst.
func securePath(dst, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	target := filepath.Join(dst, filepath.FromSlash(name))

	rel, err := filepath.Rel(dst, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrIllegalPath, name)
	}
	return target, nil
}
