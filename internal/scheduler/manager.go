package scheduler

import (
	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/service"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	jobs      []Job
}

// NewManager 创建任务管理器
//
// client 为 nil 时跳过需要链上确认的任务（local模式）。
func NewManager(db *gorm.DB, client *ledger.Client, svc service.Settlement, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	m := &Manager{scheduler: s}

	if client != nil {
		m.jobs = append(m.jobs, NewTxConfirmationJob(db, client, cfg))
	}
	m.jobs = append(m.jobs,
		NewTxExpiryJob(db, cfg),
		NewFinalizeSweepJob(db, svc, cfg),
	)

	return m, nil
}

// Start 注册并启动所有任务
func (m *Manager) Start() {
	for _, job := range m.jobs {
		_, err := m.scheduler.NewJob(
			job.GetSchedule(),
			gocron.NewTask(job.Execute),
			gocron.WithName(job.GetName()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Error("Failed to register job %s: %v", job.GetName(), err)
			continue
		}
		logger.Info("Registered job: %s", job.GetName())
	}

	m.scheduler.Start()
	logger.Info("Task manager started with %d jobs", len(m.jobs))
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
		return
	}
	logger.Info("Task manager stopped")
}
