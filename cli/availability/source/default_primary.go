package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const upsertBatchSize = 100

type DefaultPrimary struct {
	db *gorm.DB
}

// PostgresDsn собирает строку подключения из параметров хранилища
func PostgresDsn(settings map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		getOptionValue("host", "localhost", settings),
		getOptionValue("user", "postgres", settings),
		getOptionValue("password", "postgres", settings),
		getOptionValue("database", "availability", settings),
		getOptionValue("port", "5432", settings),
		getOptionValue("sslmode", "disable", settings),
	)
}

func NewDefaultPrimary(dsn string) (*DefaultPrimary, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	return &DefaultPrimary{db: db}, nil
}

func (s *DefaultPrimary) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&types.Vehicle{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *DefaultPrimary) UpsertAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(&vehicles, upsertBatchSize).Error
}

func (s *DefaultPrimary) DeleteAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Where("id IN ?", types.IDs(vehicles)).Delete(&types.Vehicle{})
	if res.Error != nil {
		return fmt.Errorf("ошибка выполнения запроса удаления: %w", res.Error)
	}
	return nil
}

func (s *DefaultPrimary) FindAll(ctx context.Context) ([]types.Vehicle, error) {
	var vehicles []types.Vehicle
	if err := s.db.WithContext(ctx).Order("id").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *DefaultPrimary) FindAllExcept(ctx context.Context, ids []string) ([]types.Vehicle, error) {
	var vehicles []types.Vehicle
	q := s.db.WithContext(ctx).Order("id")
	if len(ids) > 0 {
		q = q.Where("id <> ALL(?)", pq.StringArray(ids))
	}
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *DefaultPrimary) FindByID(ctx context.Context, id string) (types.Vehicle, error) {
	var vehicle types.Vehicle
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Vehicle{}, ErrVehicleNotFound
	}
	if err != nil {
		return types.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *DefaultPrimary) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&types.Vehicle{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *DefaultPrimary) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
