package tarantool_queue

/*
Плагин для публикации отчётов о циклах в очередь Tarantool.

Параметры хранилища в конфиге:

host = "localhost"
port = "3301"
user = "guest"
password = ""
max_recons = "5"
timeout = "1"
reconnect = "1"
queue = "cycle_reports"
format = "msgpack"
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	"github.com/tarantool/go-tarantool"
	"github.com/tarantool/go-tarantool/queue"
)

// очередь хранит кортежи msgpack, поэтому отчёт по умолчанию кладётся в том же формате
const defaultFormat = codec.FormatMsgpack

type taskPutter interface {
	Put(data interface{}) (*queue.Task, error)
}

type Connector struct {
	connection *tarantool.Connection
	queue      taskPutter
	format     string
}

func connectOptions(cfg map[string]string) (tarantool.Opts, error) {
	seconds := func(name string) (time.Duration, error) {
		v, err := strconv.Atoi(cfg[name])
		if err != nil {
			return 0, fmt.Errorf("некорректное значение %s: %v", name, err)
		}
		return time.Duration(v) * time.Second, nil
	}

	maxRecons, err := strconv.Atoi(cfg["max_recons"])
	if err != nil {
		return tarantool.Opts{}, fmt.Errorf("некорректное значение max_recons: %v", err)
	}
	timeout, err := seconds("timeout")
	if err != nil {
		return tarantool.Opts{}, err
	}
	reconnect, err := seconds("reconnect")
	if err != nil {
		return tarantool.Opts{}, err
	}

	return tarantool.Opts{
		Timeout:       timeout,
		Reconnect:     reconnect,
		MaxReconnects: uint(maxRecons),
		User:          cfg["user"],
		Pass:          cfg["password"],
	}, nil
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	if cfg["queue"] == "" {
		return fmt.Errorf("не задано имя очереди Tarantool")
	}

	opts, err := connectOptions(cfg)
	if err != nil {
		return err
	}

	c.format = cfg["format"]
	if c.format == "" {
		c.format = defaultFormat
	}

	c.connection, err = tarantool.Connect(fmt.Sprintf("%s:%s", cfg["host"], cfg["port"]), opts)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к Tarantool: %v", err)
	}
	c.queue = queue.New(c.connection, cfg["queue"])
	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на отчёт")
	}

	report, err := codec.Encode(c.format, msg)
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчёта: %v", err)
	}

	if _, err = c.queue.Put(report); err != nil {
		return fmt.Errorf("не удалось поставить отчёт в очередь: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.connection == nil {
		return nil
	}
	return c.connection.Close()
}
