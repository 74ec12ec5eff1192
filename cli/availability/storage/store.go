package storage

import (
	"errors"

	"github.com/daniil11ru/availability/cli/availability/storage/store/mysql"
	"github.com/daniil11ru/availability/cli/availability/storage/store/nats"
	"github.com/daniil11ru/availability/cli/availability/storage/store/postgresql"
	"github.com/daniil11ru/availability/cli/availability/storage/store/rabbitmq"
	"github.com/daniil11ru/availability/cli/availability/storage/store/redis"
	"github.com/daniil11ru/availability/cli/availability/storage/store/tarantool_queue"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidStorage = errors.New("storage not found")
var ErrUnknownStorage = errors.New("storage isn't support yet")

type Store interface {
	Connector
	Saver
}

// Saver интерфейс для подключения внешних хранилищ отчётов
type Saver interface {
	// Save сохранение в хранилище
	Save(interface{ ToBytes() ([]byte, error) }) error
}

// Connector интерфейс для подключения внешних хранилищ
type Connector interface {
	// Init установка соединения с хранилищем
	Init(map[string]string) error

	// Close закрытие соединения с хранилищем
	Close() error
}

// Repository набор выходных хранилищ для итогов циклов
type Repository struct {
	storages   []Saver
	connectors []Connector
}

// AddStore добавляет хранилище для сохранения данных
func (r *Repository) AddStore(s Saver) {
	r.storages = append(r.storages, s)
	if c, ok := s.(Connector); ok {
		r.connectors = append(r.connectors, c)
	}
}

// Save сохраняет данные во все установленные хранилища.
// Ошибка одного хранилища не мешает записи в остальные.
func (r *Repository) Save(m interface{ ToBytes() ([]byte, error) }) error {
	var errs []error
	for _, store := range r.storages {
		if err := store.Save(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) Len() int {
	return len(r.storages)
}

// LoadStorages загружает хранилища из структуры конфига
func (r *Repository) LoadStorages(storages map[string]map[string]string) error {
	if len(storages) == 0 {
		return ErrInvalidStorage
	}

	var db Store
	for store, params := range storages {
		switch store {
		case "rabbitmq":
			db = &rabbitmq.Connector{}
		case "postgresql":
			db = &postgresql.Connector{}
		case "nats":
			db = &nats.Connector{}
		case "tarantool_queue":
			db = &tarantool_queue.Connector{}
		case "redis":
			db = &redis.Connector{}
		case "mysql":
			db = &mysql.Connector{}
		default:
			return ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return err
		}

		log.Infof("Подключено хранилище отчётов %s", store)
		r.AddStore(db)
	}
	return nil
}

// Close закрывает соединения со всеми хранилищами
func (r *Repository) Close() error {
	var errs []error
	for _, c := range r.connectors {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRepository создает пустой репозиторий
func NewRepository() *Repository {
	return &Repository{}
}
