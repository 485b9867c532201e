package questions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Dataset — загруженный и провалидированный набор вопросов.
// Строки отсортированы по номеру.
type Dataset struct {
	Name  string
	rows  []Row
	index map[int]int
}

// Rows возвращает все вопросы в порядке возрастания номера.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Len возвращает количество вопросов.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row ищет вопрос по номеру.
func (d *Dataset) Row(number int) (Row, bool) {
	i, ok := d.index[number]
	if !ok {
		return Row{}, false
	}

	return d.rows[i], true
}

// Numbers возвращает номера всех вопросов по возрастанию.
func (d *Dataset) Numbers() []int {
	numbers := make([]int, len(d.rows))
	for i, row := range d.rows {
		numbers[i] = row.Number
	}

	return numbers
}

// Bounds возвращает минимальный и максимальный номер вопроса.
func (d *Dataset) Bounds() (int, int) {
	return d.rows[0].Number, d.rows[len(d.rows)-1].Number
}

// NewDataset собирает датасет из готовых строк, проверяя уникальность номеров.
func NewDataset(name string, rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrEmptyDataset)
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})

	index := make(map[int]int, len(sorted))
	for i, row := range sorted {
		if _, ok := index[row.Number]; ok {
			return nil, fmt.Errorf("%w, dataset %q has duplicate question number %d", ErrValidation, name, row.Number)
		}
		index[row.Number] = i
	}

	return &Dataset{Name: name, rows: sorted, index: index}, nil
}

// Load читает CSV (UTF-8, BOM допускается) и строит датасет.
func Load(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true // кавычка внутри поля — обычный символ: 3" diameter

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrEmptyDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %q: %w", name, err)
	}

	columns, err := mapHeader(name, header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		}

		field := func(column string) string {
			i := columns[column]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		line, _ := reader.FieldPos(0)

		number, ok := parseInt(field(ColumnNumber))
		if !ok {
			return nil, fmt.Errorf("%w, dataset %q line %d: invalid question number %q",
				ErrValidation, name, line, field(ColumnNumber))
		}

		rows = append(rows, NewRow(
			number,
			field(ColumnPrompt),
			[ChoiceCount]string{
				field(ColumnChoice1),
				field(ColumnChoice2),
				field(ColumnChoice3),
				field(ColumnChoice4),
			},
			field(ColumnAnswer),
			field(ColumnType),
			field(ColumnImage),
		))
	}

	return NewDataset(name, rows)
}

// LoadFile загружает датасет из файла. Имя датасета — имя файла.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(f, filepath.Base(path))
}

type cachedDataset struct {
	dataset *Dataset
	modTime time.Time
}

// Library — каталог с CSV-датасетами. Загруженные датасеты кэшируются
// до изменения файла.
type Library struct {
	dir   string
	cache map[string]cachedDataset
	mu    sync.Mutex
}

// NewLibrary создаёт библиотеку датасетов в каталоге dir.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:   dir,
		cache: make(map[string]cachedDataset),
	}
}

// Dir возвращает каталог библиотеки.
func (l *Library) Dir() string {
	return l.dir
}

// List возвращает отсортированные имена CSV-файлов каталога.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoDatasets, l.dir)
		}
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDatasets, l.dir)
	}

	sort.Strings(names)

	return names, nil
}

// Get загружает датасет по имени файла.
func (l *Library) Get(name string) (*Dataset, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
	}

	path := filepath.Join(l.dir, name)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[name]; ok && cached.modTime.Equal(info.ModTime()) {
		return cached.dataset, nil
	}

	dataset, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	l.cache[name] = cachedDataset{dataset: dataset, modTime: info.ModTime()}

	return dataset, nil
}
