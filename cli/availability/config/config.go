package config

/*
Описание конфигурационного файла
*/

import (
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

const (
	defaultInitialDelay          = 5
	defaultFixedDelay            = 30
	defaultRemoteTimeout         = 10
	defaultSampleSize            = 10
	defaultExistenceCheckWorkers = 4
	defaultApiPort               = 8080
	defaultReportBuffer          = 16
	defaultReportWorkers         = 1

	FallbackEmpty  = "empty"
	FallbackSample = "sample"
)

// Remote параметры удалённого сервиса, отдающего доступный транспорт
type Remote struct {
	BaseUrl          string   `yaml:"base_url"`
	Endpoint         string   `yaml:"endpoint"`
	LowerLeftLatLon  string   `yaml:"lower_left_lat_lon"`
	UpperRightLatLon string   `yaml:"upper_right_lat_lon"`
	CompanyZoneIds   []string `yaml:"company_zone_ids"`
	Timeout          int      `yaml:"timeout"`
}

// GetFullUrl собирает адрес запроса со всеми параметрами.
// Порядок параметров фиксирован, запятые передаются как есть.
func (r *Remote) GetFullUrl() string {
	return r.BaseUrl + r.Endpoint + "?" +
		"lowerLeftLatLon=" + r.LowerLeftLatLon + "&" +
		"upperRightLatLon=" + r.UpperRightLatLon + "&" +
		"companyZoneIds=" + strings.Join(r.CompanyZoneIds, ",")
}

func (r *Remote) GetTimeout() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

type Schedule struct {
	InitialDelay int `yaml:"initial_delay"`
	FixedDelay   int `yaml:"fixed_delay"`
}

type Fallback struct {
	Policy     string `yaml:"policy"`
	SampleSize int    `yaml:"sample_size"`
}

type Reports struct {
	Buffer   int                          `yaml:"buffer"`
	Workers  int                          `yaml:"workers"`
	Storages map[string]map[string]string `yaml:"storages"`
}

type Settings struct {
	LogLevel              string            `yaml:"log_level"`
	LogFilePath           string            `yaml:"log_file_path"`
	LogMaxAgeDays         int               `yaml:"log_max_age_days"`
	ApiPort               int32             `yaml:"api_port"`
	MigrationsPath        string            `yaml:"migrations_path"`
	ExistenceCheckWorkers int               `yaml:"existence_check_workers"`
	Remote                Remote            `yaml:"remote"`
	Schedule              Schedule          `yaml:"schedule"`
	Fallback              Fallback          `yaml:"fallback"`
	Store                 map[string]string `yaml:"store"`
	Reports               Reports           `yaml:"reports"`
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

func (s *Settings) GetInitialDelay() time.Duration {
	return time.Duration(s.Schedule.InitialDelay) * time.Second
}

func (s *Settings) GetFixedDelay() time.Duration {
	return time.Duration(s.Schedule.FixedDelay) * time.Second
}

func (s *Settings) GetStoreDriver() string {
	return s.Store["driver"]
}

func New(confPath string) (Settings, error) {
	// значение, отсутствующее в файле, остаётся значением по умолчанию, явный 0 сохраняется
	c := Settings{Schedule: Schedule{InitialDelay: defaultInitialDelay}}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Schedule.InitialDelay < 0 {
		log.Errorf("Некорректная начальная задержка (%d). Используется значение по умолчанию %d.", c.Schedule.InitialDelay, defaultInitialDelay)
		c.Schedule.InitialDelay = defaultInitialDelay
	}
	if c.Schedule.FixedDelay <= 0 {
		c.Schedule.FixedDelay = defaultFixedDelay
	}

	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = defaultRemoteTimeout
	}

	switch c.Fallback.Policy {
	case FallbackEmpty, FallbackSample:
	case "":
		c.Fallback.Policy = FallbackEmpty
	default:
		log.Errorf("Неизвестная политика подмены данных %q. Используется %q.", c.Fallback.Policy, FallbackEmpty)
		c.Fallback.Policy = FallbackEmpty
	}
	if c.Fallback.SampleSize <= 0 {
		c.Fallback.SampleSize = defaultSampleSize
	}

	if c.ExistenceCheckWorkers <= 0 {
		c.ExistenceCheckWorkers = defaultExistenceCheckWorkers
	}
	if c.ApiPort == 0 {
		c.ApiPort = defaultApiPort
	}

	if c.Reports.Buffer <= 0 {
		c.Reports.Buffer = defaultReportBuffer
	}
	if c.Reports.Workers <= 0 {
		c.Reports.Workers = defaultReportWorkers
	}

	if c.Store == nil {
		c.Store = map[string]string{}
	}
	if c.Store["driver"] == "" {
		c.Store["driver"] = "postgresql"
	}

	return c, err
}
