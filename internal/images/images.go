// Package images находит картинки вопросов и один раз распаковывает архив с ними.
package images

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath возвращается для записей архива, выходящих за пределы каталога.
var ErrUnsafePath = errors.New("archive entry escapes target directory")

// EnsureExtracted распаковывает archive в dir, если каталога dir ещё нет.
// Возвращает true, если распаковка была выполнена.
func EnsureExtracted(dir, archive string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat image dir: %w", err)
	}

	if _, err := os.Stat(archive); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat image archive: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create image dir: %w", err)
	}

	if err := extract(dir, archive); err != nil {
		// недораспакованный каталог убираем, чтобы следующий запуск повторил попытку
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("failed to remove partially extracted images", "dir", dir, "error", rmErr)
		}
		return false, err
	}

	slog.Info("image archive extracted", "archive", archive, "dir", dir)

	return true, nil
}

func extract(dir, archive string) error {
	r, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return fmt.Errorf("%w: %v", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("open image archive: %w", err)
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	for _, file := range r.File {
		target := filepath.Join(root, filepath.FromSlash(file.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}

	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}

	return dst.Close()
}

// Resolver ищет файлы картинок в одном каталоге по имени файла.
type Resolver struct {
	dir string
}

// NewResolver создаёт Resolver для каталога dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Name выделяет имя файла из ссылки на картинку ("img/q7.png" -> "q7.png").
// Разделители "/" и "\" равноправны.
func Name(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndexAny(ref, `/\`); i >= 0 {
		ref = ref[i+1:]
	}

	if ref == "." || ref == ".." {
		return ""
	}

	return ref
}

// Resolve возвращает имя файла и путь к нему, если файл существует.
func (r *Resolver) Resolve(ref string) (string, string, bool) {
	name := Name(ref)
	if name == "" {
		return "", "", false
	}

	path := filepath.Join(r.dir, name)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return name, "", false
	}

	return name, path, true
}
