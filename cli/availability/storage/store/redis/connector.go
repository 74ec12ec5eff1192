package redis

/*
Плагин для публикации отчётов в канал Redis.

Раздел настроек, которые могут быть в конфиге для подключения хранилища:

host = "localhost"
port = "6379"
password = ""
db = "0"
channel = "availability"
format = "json"
*/

import (
	"context"
	"fmt"
	"strconv"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	"github.com/go-redis/redis/v8"
)

type Connector struct {
	client *redis.Client
	config map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg
	if c.config["channel"] == "" {
		c.config["channel"] = "availability"
	}

	db := 0
	if c.config["db"] != "" {
		var err error
		if db, err = strconv.Atoi(c.config["db"]); err != nil {
			return fmt.Errorf("не удалось получить номер базы Redis: %v", err)
		}
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", c.config["host"], c.config["port"]),
		Password: c.config["password"],
		DB:       db,
	})

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("Redis недоступен: %v", err)
	}
	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на отчёт")
	}

	report, err := codec.Encode(c.config["format"], msg)
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчёта: %v", err)
	}

	if err = c.client.Publish(context.Background(), c.config["channel"], report).Err(); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.client.Close()
}
