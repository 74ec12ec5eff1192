package nats

/*
Плагин для работы с NATS.

Раздел настроек, которые должны отвечають в конфиге для подключения хранилища:

servers = "nats://localhost:1222, nats://localhost:1223, nats://localhost:1224"
topic = "availability"
format = "json"
*/

import (
	"fmt"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	"github.com/nats-io/nats.go"
)

type Connector struct {
	connection *nats.Conn
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var (
		err error
	)
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg
	if c.config["topic"] == "" {
		return fmt.Errorf("не задан топик NATS")
	}
	if c.connection, err = nats.Connect(c.config["servers"], nats.Name("availability")); err != nil {
		return fmt.Errorf("ошибка подключения к NATS: %v", err)
	}
	return err
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на отчёт")
	}

	report, err := codec.Encode(c.config["format"], msg)
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчёта: %v", err)
	}

	if err = c.connection.Publish(c.config["topic"], report); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.connection != nil {
		c.connection.Close()
	}
	return nil
}
