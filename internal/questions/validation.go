package questions

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError описывает недостающие обязательные колонки датасета.
type ValidationError struct {
	Dataset string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v, dataset %q is missing columns: %s", ErrValidation, e.Dataset, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// mapHeader сопоставляет заголовок CSV каноническим колонкам.
// Возвращает индексы колонок и ошибку со списком недостающих.
func mapHeader(dataset string, header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))

	for i, name := range header {
		name = strings.TrimSpace(name)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}

		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) != 0 {
		sort.Strings(missing)
		return nil, &ValidationError{Dataset: dataset, Missing: missing}
	}

	return index, nil
}
