package source

import (
	"context"
	"errors"

	"github.com/daniil11ru/availability/cli/availability/types"
)

var ErrVehicleNotFound = errors.New("транспорт не найден")

// Primary основное хранилище доступного транспорта, с ключом по идентификатору
type Primary interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	UpsertAll(ctx context.Context, vehicles []types.Vehicle) error
	DeleteAll(ctx context.Context, vehicles []types.Vehicle) error
	FindAll(ctx context.Context) ([]types.Vehicle, error)
	FindByID(ctx context.Context, id string) (types.Vehicle, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// UnavailableFinder хранилища, умеющие отфильтровать записи на своей стороне
type UnavailableFinder interface {
	FindAllExcept(ctx context.Context, ids []string) ([]types.Vehicle, error)
}
