package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/daniil11ru/availability/cli/availability/api"
	"github.com/daniil11ru/availability/cli/availability/config"
	"github.com/daniil11ru/availability/cli/availability/domain"
	"github.com/daniil11ru/availability/cli/availability/metrics"
	"github.com/daniil11ru/availability/cli/availability/repository"
	"github.com/daniil11ru/availability/cli/availability/scheduler"
	"github.com/daniil11ru/availability/cli/availability/source"
	"github.com/daniil11ru/availability/cli/availability/storage"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type reportSaver interface {
	Save(m interface{ ToBytes() ([]byte, error) }) error
}

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()
	settings, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(settings)

	if err := applyMigrations(settings); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
		return
	}

	primarySource, err := newPrimarySource(settings)
	if err != nil {
		log.Fatalf("Не удалось инициализировать источник данных: %v", err)
		return
	}
	defer primarySource.Close()

	fallback, err := newFallback(settings)
	if err != nil {
		log.Fatalf("Не удалось инициализировать подмену данных: %v", err)
		return
	}

	vehicles := &repository.Vehicles{Source: primarySource}
	remote := source.NewDefaultRemote(settings.Remote.GetFullUrl(), settings.Remote.GetTimeout())
	log.Infof("Адрес удалённого сервиса: %s", remote.Url())

	checkAvailability := domain.CheckAvailability{
		VehiclesRepository:    vehicles,
		Remote:                remote,
		Fallback:              fallback,
		ExistenceCheckWorkers: settings.ExistenceCheckWorkers,
	}

	journal := &domain.Journal{}
	cycleMetrics := metrics.New()

	var reports reportSaver
	if len(settings.Reports.Storages) > 0 {
		storages := storage.NewRepository()
		if err := storages.LoadStorages(settings.Reports.Storages); err != nil {
			log.Fatalf("Не удалось загрузить хранилища отчётов: %v", err)
			return
		}
		log.Infof("Подключено хранилищ отчётов: %d", storages.Len())
		asyncStorages := storage.NewAsyncRepository(storages, settings.Reports.Buffer, settings.Reports.Workers)
		defer func() {
			asyncStorages.Close()
			if err := storages.Close(); err != nil {
				log.WithField("err", err).Error("Ошибка закрытия хранилищ отчётов")
			}
		}()
		reports = asyncStorages
	}

	sched := scheduler.New(settings.GetInitialDelay(), settings.GetFixedDelay(),
		newCycleJob(&checkAvailability, journal, cycleMetrics, reports))
	sched.Start()

	controller, err := api.NewController(api.NewHandler(vehicles, journal), cycleMetrics.Registry, settings.ApiPort)
	if err != nil {
		log.Fatalf("Не удалось создать контроллер API: %v", err)
		return
	}
	go runApi(controller)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Infof("Получен сигнал %v, завершение работы", sig)

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := controller.Shutdown(ctx); err != nil {
		log.WithField("err", err).Error("Ошибка остановки API")
	}
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, errors.New("не задан путь до конфига")
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %v", err)
	}

	return c, nil
}

func configureLogging(settings config.Settings) {
	log.SetLevel(settings.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if settings.LogFilePath != "" {
		log.AddHook(newFileHook(newLogWriter(settings)))
	}
}

func newLogWriter(settings config.Settings) *lumberjack.Logger {
	logDir := filepath.Dir(settings.LogFilePath)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			log.Fatalf("Не получилось создать директорию для логов: %v", err)
		}
	}

	return &lumberjack.Logger{
		Filename:   settings.LogFilePath,
		MaxSize:    100,
		MaxBackups: 366,
		MaxAge:     settings.LogMaxAgeDays,
		Compress:   true,
	}
}

func newFileHook(lumberjackLogger *lumberjack.Logger) *lfshook.LfsHook {
	fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
	return lfshook.NewHook(lfshook.WriterMap{
		log.PanicLevel: lumberjackLogger,
		log.FatalLevel: lumberjackLogger,
		log.ErrorLevel: lumberjackLogger,
		log.WarnLevel:  lumberjackLogger,
		log.InfoLevel:  lumberjackLogger,
		log.DebugLevel: lumberjackLogger,
		log.TraceLevel: lumberjackLogger,
	}, fileFmt)
}

func newPrimarySource(settings config.Settings) (source.Primary, error) {
	switch settings.GetStoreDriver() {
	case "postgresql":
		return source.NewDefaultPrimary(source.PostgresDsn(settings.Store))
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return source.NewRedisPrimary(ctx, settings.Store)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища %q", settings.GetStoreDriver())
	}
}

func newFallback(settings config.Settings) (domain.Fallback, error) {
	if settings.Fallback.Policy == config.FallbackSample {
		return domain.NewSampleFallback(settings.Fallback.SampleSize, settings.Remote.LowerLeftLatLon, settings.Remote.UpperRightLatLon)
	}
	return domain.EmptyFallback{}, nil
}

type cycleRunner interface {
	Run(ctx context.Context) (domain.Summary, error)
}

type cycleObserver interface {
	Observe(summary domain.Summary, err error)
}

func newCycleJob(runner cycleRunner, journal *domain.Journal, observer cycleObserver, reports reportSaver) scheduler.Job {
	return func(ctx context.Context) {
		summary, err := runner.Run(ctx)
		observer.Observe(summary, err)
		if err != nil {
			log.WithFields(log.Fields{"cycle": summary.CycleID, "err": err}).Error("Цикл проверки доступности транспорта завершился ошибкой")
			return
		}

		journal.Record(summary)
		if reports == nil || summary.Skipped {
			return
		}
		if err := reports.Save(summary); err != nil {
			log.WithFields(log.Fields{"cycle": summary.CycleID, "err": err}).Warn("Отчёт о цикле не поставлен в очередь")
		}
	}
}

func runApi(controller *api.Controller) {
	log.Infof("Запуск API на %s", controller.Addr())
	if err := controller.Run(); err != nil {
		log.Fatal(err)
	}
}

func applyMigrations(settings config.Settings) error {
	if settings.MigrationsPath == "" || settings.GetStoreDriver() != "postgresql" {
		log.Debug("Миграции не применяются")
		return nil
	}

	databaseUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		settings.Store["user"], settings.Store["password"], settings.Store["host"], settings.Store["port"], settings.Store["database"], settings.Store["sslmode"])

	m, err := migrate.New(
		settings.MigrationsPath,
		databaseUrl,
	)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %v", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info("Нет новых миграций для применения")
			return nil
		}
		return fmt.Errorf("ошибка применения миграций: %v", err)
	}

	log.Info("Миграции успешно применены")
	return nil
}
