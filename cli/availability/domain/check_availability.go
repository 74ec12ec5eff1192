package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var now = time.Now

type VehiclesRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	SaveAll(ctx context.Context, vehicles []types.Vehicle) error
	DeleteAll(ctx context.Context, vehicles []types.Vehicle) error
	GetUnavailable(ctx context.Context, availableIDs []string) ([]types.Vehicle, error)
	Count(ctx context.Context) (int64, error)
}

type RemoteVehicles interface {
	GetVehicles(ctx context.Context) ([]types.Vehicle, error)
}

// CheckAvailability приводит хранилище в соответствие со снимком удалённого сервиса
type CheckAvailability struct {
	VehiclesRepository VehiclesRepository
	Remote             RemoteVehicles
	Fallback           Fallback

	// ExistenceCheckWorkers ограничивает число параллельных проверок наличия, при 1 проверки идут последовательно
	ExistenceCheckWorkers int
}

func (domain *CheckAvailability) fallback() Fallback {
	if domain.Fallback == nil {
		return EmptyFallback{}
	}
	return domain.Fallback
}

func (domain *CheckAvailability) Run(ctx context.Context) (Summary, error) {
	summary := Summary{CycleID: uuid.NewString(), StartedAt: now()}
	logger := log.WithField("cycle", summary.CycleID)

	vehicles, err := domain.Remote.GetVehicles(ctx)
	if err != nil {
		fallback := domain.fallback()
		logger.WithField("err", err).Warnf("Не удалось получить данные о транспорте, используется подмена %q", fallback.Name())
		summary.FetchFailed = true
		summary.FetchError = err.Error()
		vehicles = fallback.Vehicles()
	}

	vehicles = uniqueByID(vehicles)
	if len(vehicles) == 0 {
		summary.Skipped = true
		summary.FinishedAt = now()
		logger.Warn(summary.String())
		return summary, nil
	}

	existing, fresh, err := domain.partition(ctx, vehicles)
	if err != nil {
		return summary, fmt.Errorf("не удалось проверить наличие транспорта: %w", err)
	}

	unavailable, err := domain.VehiclesRepository.GetUnavailable(ctx, types.IDs(vehicles))
	if err != nil {
		return summary, fmt.Errorf("не удалось получить недоступный транспорт: %w", err)
	}

	if err := domain.VehiclesRepository.SaveAll(ctx, existing); err != nil {
		return summary, fmt.Errorf("не удалось обновить транспорт: %w", err)
	}
	summary.Updated = len(existing)

	if err := domain.VehiclesRepository.SaveAll(ctx, fresh); err != nil {
		return summary, fmt.Errorf("не удалось добавить новый транспорт: %w", err)
	}
	summary.New = len(fresh)

	if err := domain.VehiclesRepository.DeleteAll(ctx, unavailable); err != nil {
		return summary, fmt.Errorf("не удалось удалить недоступный транспорт: %w", err)
	}
	summary.Unavailable = len(unavailable)

	available, err := domain.VehiclesRepository.Count(ctx)
	if err != nil {
		return summary, fmt.Errorf("не удалось посчитать доступный транспорт: %w", err)
	}
	summary.Available = available
	summary.FinishedAt = now()

	logger.Info(summary.String())
	if !summary.HasChanges() {
		logger.Debug("Состав доступного транспорта не изменился")
	}
	return summary, nil
}

// partition делит снимок на уже сохранённый и новый транспорт, только чтение
func (domain *CheckAvailability) partition(ctx context.Context, vehicles []types.Vehicle) (existing, fresh []types.Vehicle, err error) {
	exists := make([]bool, len(vehicles))

	workers := domain.ExistenceCheckWorkers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range vehicles {
		i := i
		g.Go(func() error {
			ok, err := domain.VehiclesRepository.ExistsByID(gctx, vehicles[i].ID)
			if err != nil {
				return fmt.Errorf("%s: %w", vehicles[i].ID, err)
			}
			exists[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	existing = make([]types.Vehicle, 0, len(vehicles))
	fresh = make([]types.Vehicle, 0, len(vehicles))
	for i, v := range vehicles {
		if exists[i] {
			existing = append(existing, v)
		} else {
			fresh = append(fresh, v)
		}
	}
	return existing, fresh, nil
}

// uniqueByID оставляет по одной записи на идентификатор, побеждает последняя
func uniqueByID(vehicles []types.Vehicle) []types.Vehicle {
	index := make(map[string]int, len(vehicles))
	unique := make([]types.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if i, ok := index[v.ID]; ok {
			unique[i] = v
			continue
		}
		index[v.ID] = len(unique)
		unique = append(unique, v)
	}
	return unique
}
