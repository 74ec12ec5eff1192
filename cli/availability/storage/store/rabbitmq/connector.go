package rabbitmq

/*
Плагин для работы с RabbitMQ через amqp.

Раздел настроек, которые должны отвечають в конфиге для подключения хранилища:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "availability"
key = "cycle"
format = "json"
*/

import (
	"fmt"
	"time"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	"github.com/streadway/amqp"
)

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
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
	if c.config["exchange"] == "" {
		return fmt.Errorf("не задан exchange RabbitMQ")
	}

	conStr := fmt.Sprintf("amqp://%s:%s@%s:%s/", c.config["user"], c.config["password"], c.config["host"], c.config["port"])
	if c.connection, err = amqp.Dial(conStr); err != nil {
		return fmt.Errorf("ошибка установки соединения с RabbitMQ: %v", err)
	}

	if c.channel, err = c.connection.Channel(); err != nil {
		return fmt.Errorf("ошибка открытия канала RabbitMQ: %v", err)
	}

	if err = c.channel.ExchangeDeclare(c.config["exchange"], "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("не удалось объявить exchange: %v", err)
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

	if err = c.channel.Publish(
		c.config["exchange"],
		c.config["key"],
		false,
		false,
		amqp.Publishing{
			ContentType:  codec.ContentType(c.config["format"]),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         report,
		},
	); err != nil {
		return fmt.Errorf("не удалось отправить сообщение в RabbitMQ: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.connection != nil {
		return c.connection.Close()
	}
	return nil
}
