package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job один цикл работы, повторяемый по расписанию
type Job func(ctx context.Context)

// Scheduler запускает задачу после начальной задержки, затем с постоянным интервалом.
// Запуски не перекрываются: если предыдущий ещё идёт, очередной пропускается.
type Scheduler struct {
	initialDelay time.Duration
	fixedDelay   time.Duration

	cron        *cron.Cron
	job         cron.Job
	timer       *time.Timer
	initialDone chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	once        sync.Once
}

func New(initialDelay, fixedDelay time.Duration, job Job) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger := cronLogger{}

	s := &Scheduler{
		initialDelay: initialDelay,
		fixedDelay:   fixedDelay,
		cron:         cron.New(cron.WithLogger(logger)),
		initialDone:  make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
	s.job = cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(func() {
		if s.ctx.Err() != nil {
			return
		}
		job(s.ctx)
	}))
	s.cron.Schedule(cron.Every(fixedDelay), s.job)

	return s
}

// Start планирует первый запуск через initialDelay, после него включается периодический режим
func (s *Scheduler) Start() {
	s.timer = time.AfterFunc(s.initialDelay, func() {
		defer close(s.initialDone)
		if s.ctx.Err() != nil {
			return
		}
		s.cron.Start()
		s.job.Run()
	})
	log.Infof("Запланирована проверка доступности транспорта: через %v, затем каждые %v", s.initialDelay, s.fixedDelay)
}

// Stop отменяет контекст текущего цикла и дожидается его завершения
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.timer != nil && !s.timer.Stop() {
			<-s.initialDone
		}
		<-s.cron.Stop().Done()
		log.Info("Планировщик остановлен")
	})
}

// cronLogger передаёт сообщения cron в logrus
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	entry := log.WithFields(toFields(keysAndValues))
	if msg == "skip" {
		entry.Warn("Предыдущий цикл ещё не завершён, запуск пропущен")
		return
	}
	entry.Debugf("cron: %s", msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithFields(toFields(keysAndValues)).WithField("err", err).Errorf("cron: %s", msg)
}

func toFields(keysAndValues []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
