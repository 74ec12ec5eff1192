package mysql

/*
Настройки, которые могут быть в конфиге для подключения хранилища:

host = "localhost"
port = "3306"
user = "root"
password = "root"
database = "availability"
table = "cycle_report"
*/

import (
	"database/sql"
	"fmt"
	"net"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	"github.com/go-sql-driver/mysql"
)

type Connector struct {
	connection *sql.DB
	config     map[string]string
}

// Dsn собирает строку подключения из параметров хранилища
func Dsn(cfg map[string]string) string {
	conf := mysql.NewConfig()
	conf.User = cfg["user"]
	conf.Passwd = cfg["password"]
	conf.Net = "tcp"
	conf.Addr = net.JoinHostPort(cfg["host"], cfg["port"])
	conf.DBName = cfg["database"]
	conf.ParseTime = true
	return conf.FormatDSN()
}

func (c *Connector) Init(cfg map[string]string) error {
	var (
		err error
	)
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	c.config = cfg
	if c.config["table"] == "" {
		c.config["table"] = "cycle_report"
	}

	if c.connection, err = sql.Open("mysql", Dsn(c.config)); err != nil {
		return fmt.Errorf("ошибка подключения к MySQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("MySQL недоступен: %v", err)
	}
	return err
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на отчёт")
	}

	report, err := codec.Encode(codec.FormatJSON, msg)
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчёта: %v", err)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (report_data) VALUES (?)", c.config["table"])
	if _, err = c.connection.Exec(insertQuery, report); err != nil {
		return fmt.Errorf("не удалось вставить запись: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
