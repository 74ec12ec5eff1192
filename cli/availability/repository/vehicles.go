package repository

import (
	"context"

	"github.com/daniil11ru/availability/cli/availability/source"
	"github.com/daniil11ru/availability/cli/availability/types"
)

type Vehicles struct {
	Source source.Primary
}

func (r *Vehicles) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.Source.ExistsByID(ctx, id)
}

func (r *Vehicles) SaveAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	return r.Source.UpsertAll(ctx, vehicles)
}

func (r *Vehicles) DeleteAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	return r.Source.DeleteAll(ctx, vehicles)
}

// GetUnavailable возвращает записи хранилища, идентификаторов которых нет среди доступных
func (r *Vehicles) GetUnavailable(ctx context.Context, availableIDs []string) ([]types.Vehicle, error) {
	if finder, ok := r.Source.(source.UnavailableFinder); ok {
		return finder.FindAllExcept(ctx, availableIDs)
	}

	stored, err := r.Source.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	available := make(map[string]struct{}, len(availableIDs))
	for _, id := range availableIDs {
		available[id] = struct{}{}
	}

	unavailable := make([]types.Vehicle, 0)
	for _, v := range stored {
		if _, ok := available[v.ID]; !ok {
			unavailable = append(unavailable, v)
		}
	}
	return unavailable, nil
}

func (r *Vehicles) GetAll(ctx context.Context) ([]types.Vehicle, error) {
	return r.Source.FindAll(ctx)
}

func (r *Vehicles) GetByID(ctx context.Context, id string) (types.Vehicle, error) {
	return r.Source.FindByID(ctx, id)
}

func (r *Vehicles) Count(ctx context.Context) (int64, error) {
	return r.Source.Count(ctx)
}
