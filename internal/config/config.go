// Package config читает настройки сервера из YAML, .env и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config — корневая структура файла cbtquiz.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Exam    ExamConfig    `yaml:"exam"`
	UI      UIConfig      `yaml:"ui"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig — параметры HTTP-сервера.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Title string `yaml:"title"`
}

// DataConfig — расположение датасетов и картинок.
type DataConfig struct {
	CSVDir       string `yaml:"csv_dir"`
	ImageDir     string `yaml:"image_dir"`
	ImageArchive string `yaml:"image_archive"`
	AutoExtract  bool   `yaml:"auto_extract"`
}

// ExamConfig — параметры экзаменационного режима.
type ExamConfig struct {
	Size int `yaml:"size"`
}

// UIConfig — варианты отображения страниц.
type UIConfig struct {
	Slider     string `yaml:"slider"`      // "range" | "select"
	ShowAnswer bool   `yaml:"show_answer"` // показывать ответ в практике по умолчанию
}

// StorageConfig — хранилище сессий.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" | "sqlite" | "postgres"
	DSN    string `yaml:"dsn"`
}

// LogConfig — настройки логирования.
type LogConfig struct {
	Level string `yaml:"level"`
	Color bool   `yaml:"color"`
}

// Значения перечислимых настроек
const (
	SliderRange  = "range"
	SliderSelect = "select"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultFile — файл конфигурации, который ищется в текущем каталоге.
const DefaultFile = "cbtquiz.yaml"

// Переменные окружения, перекрывающие файл
const (
	EnvAddr          = "CBTQUIZ_ADDR"
	EnvStorageDriver = "CBTQUIZ_STORAGE_DRIVER"
	EnvStorageDSN    = "CBTQUIZ_STORAGE_DSN"
	EnvLogLevel      = "CBTQUIZ_LOG_LEVEL"
)

// ErrInvalid возвращается для некорректных значений настроек.
var ErrInvalid = errors.New("invalid config")

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:  ":8501",
			Title: "전기기사 CBT",
		},
		Data: DataConfig{
			CSVDir:       "out_csv",
			ImageDir:     "out_img",
			ImageArchive: "out_img.zip",
			AutoExtract:  true,
		},
		Exam: ExamConfig{
			Size: 80,
		},
		UI: UIConfig{
			Slider:     SliderRange,
			ShowAnswer: true,
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
	}
}

// ReadConfig читает YAML-файл поверх настроек по умолчанию.
func ReadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig записывает cfg в YAML-файл.
func WriteConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load собирает итоговые настройки: .env, затем файл path (или DefaultFile,
// если он есть), затем переменные окружения.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()

	switch {
	case path != "":
		loaded, err := ReadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			loaded, err := ReadConfig(DefaultFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(EnvStorageDSN); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate проверяет значения настроек и подставляет зависимые значения.
func (c *Config) Validate() error {
	if c.Exam.Size <= 0 {
		return fmt.Errorf("%w, exam.size must be positive, got %d", ErrInvalid, c.Exam.Size)
	}

	switch c.UI.Slider {
	case SliderRange, SliderSelect:
	default:
		return fmt.Errorf("%w, unknown ui.slider %q", ErrInvalid, c.UI.Slider)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.DSN == "" {
			c.Storage.DSN = "cbtquiz.db"
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w, storage.dsn is required for postgres", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w, unknown storage.driver %q", ErrInvalid, c.Storage.Driver)
	}

	if c.Data.CSVDir == "" {
		return fmt.Errorf("%w, data.csv_dir is empty", ErrInvalid)
	}

	return nil
}
