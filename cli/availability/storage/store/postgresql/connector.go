package postgresql

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для подключения хранилища:

host = "localhost"
port = "5432"
user = "postgres"
password = "postgres"
database = "availability"
table = "cycle_report"
report_data_field_name = "report_data"
sslmode = "disable"
*/

import (
	"database/sql"
	"fmt"

	"github.com/daniil11ru/availability/cli/availability/storage/store/codec"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Connector struct {
	connection *sql.DB
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
	if c.config["table"] == "" {
		c.config["table"] = "cycle_report"
	}
	if c.config["report_data_field_name"] == "" {
		log.Warnf("Ключ 'report_data_field_name' не найден в конфигурации хранилища. Используется значение по умолчанию 'report_data'.")
		c.config["report_data_field_name"] = "report_data"
	}

	connStr := fmt.Sprintf("dbname=%s host=%s port=%s user=%s password=%s sslmode=%s",
		c.config["database"], c.config["host"], c.config["port"], c.config["user"], c.config["password"], c.config["sslmode"])
	if c.connection, err = sql.Open("postgres", connStr); err != nil {
		return fmt.Errorf("ошибка подключения к PostgreSQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("PostgreSQL недоступен: %v", err)
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

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1)", c.config["table"], c.config["report_data_field_name"])
	if _, err = c.connection.Exec(insertQuery, string(report)); err != nil {
		return fmt.Errorf("не удалось вставить запись: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
