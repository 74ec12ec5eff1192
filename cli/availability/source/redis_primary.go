package source

/*
Хранилище транспорта в Redis.

Настройки, которые могут быть в конфиге:

host = "localhost"
port = "6379"
password = ""
db = "0"
prefix = "availability"
*/

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/go-redis/redis/v8"
)

type RedisPrimary struct {
	client *redis.Client
	prefix string
}

func NewRedisPrimary(ctx context.Context, settings map[string]string) (*RedisPrimary, error) {
	db, err := strconv.Atoi(getOptionValue("db", "0", settings))
	if err != nil {
		return nil, fmt.Errorf("не удалось получить номер базы Redis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     getOptionValue("host", "localhost", settings) + ":" + getOptionValue("port", "6379", settings),
		Password: settings["password"],
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis недоступен: %v", err)
	}

	return NewRedisPrimaryWithClient(client, getOptionValue("prefix", "availability", settings)), nil
}

func NewRedisPrimaryWithClient(client *redis.Client, prefix string) *RedisPrimary {
	return &RedisPrimary{client: client, prefix: prefix}
}

func (s *RedisPrimary) idsKey() string {
	return s.prefix + ":vehicles"
}

func (s *RedisPrimary) vehicleKey(id string) string {
	return s.prefix + ":vehicle:" + id
}

func (s *RedisPrimary) ExistsByID(ctx context.Context, id string) (bool, error) {
	return s.client.SIsMember(ctx, s.idsKey(), id).Result()
}

func (s *RedisPrimary) UpsertAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, v := range vehicles {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("ошибка сериализации транспорта %s: %w", v.ID, err)
			}
			pipe.Set(ctx, s.vehicleKey(v.ID), data, 0)
			pipe.SAdd(ctx, s.idsKey(), v.ID)
		}
		return nil
	})
	return err
}

func (s *RedisPrimary) DeleteAll(ctx context.Context, vehicles []types.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, v := range vehicles {
			pipe.Del(ctx, s.vehicleKey(v.ID))
			pipe.SRem(ctx, s.idsKey(), v.ID)
		}
		return nil
	})
	return err
}

func (s *RedisPrimary) FindAll(ctx context.Context) ([]types.Vehicle, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Vehicle{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.vehicleKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	vehicles := make([]types.Vehicle, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// id есть в множестве, но значение уже удалено
			continue
		}
		var v types.Vehicle
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("ошибка чтения транспорта %s: %w", ids[i], err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func (s *RedisPrimary) FindByID(ctx context.Context, id string) (types.Vehicle, error) {
	raw, err := s.client.Get(ctx, s.vehicleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Vehicle{}, ErrVehicleNotFound
	}
	if err != nil {
		return types.Vehicle{}, err
	}

	var v types.Vehicle
	if err := json.Unmarshal(raw, &v); err != nil {
		return types.Vehicle{}, fmt.Errorf("ошибка чтения транспорта %s: %w", id, err)
	}
	return v, nil
}

func (s *RedisPrimary) Count(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, s.idsKey()).Result()
}

func (s *RedisPrimary) Close() error {
	return s.client.Close()
}
