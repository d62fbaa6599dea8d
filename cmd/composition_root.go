package cmd

import (
	"log/slog"

	"transferflow/internal/adapters/out/notify"
	"transferflow/internal/adapters/out/postgres"
	"transferflow/internal/adapters/out/postgres/numbering"
	"transferflow/internal/core/application/usecases/commands"
	"transferflow/internal/core/application/usecases/queries"
	"transferflow/internal/core/domain/services"
	"transferflow/internal/core/ports"
	"transferflow/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	numbering  ports.NumberingService
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	var publisher ports.NotificationPublisher = notify.NewNopPublisher()
	if config.NotifyEndpoint != "" {
		publisher = notify.NewWebhookPublisher(config.NotifyEndpoint)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		numbering:  numbering.NewPostgresNumberingService(gormDB),
		publisher:  publisher,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateWorkflowCommandHandler() commands.CreateWorkflowCommandHandler {
	return commands.NewCreateWorkflowCommandHandler(c.workflowUoWFactory(), c.numbering)
}

func (c *CompositionRoot) CreateAddActionCommandHandler() commands.AddActionCommandHandler {
	return commands.NewAddActionCommandHandler(c.fullUoWFactory())
}

func (c *CompositionRoot) CreatePlanWorkflowCommandHandler() commands.PlanWorkflowCommandHandler {
	return commands.NewPlanWorkflowCommandHandler(c.workflowUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCancelWorkflowCommandHandler() commands.CancelWorkflowCommandHandler {
	return commands.NewCancelWorkflowCommandHandler(c.workflowUoWFactory())
}

func (c *CompositionRoot) CreateExecuteActionCommandHandler() commands.ExecuteActionCommandHandler {
	return commands.NewExecuteActionCommandHandler(
		c.fullUoWFactory(), services.NewTransferExecutor(), c.publisher, c.logger,
	)
}

func (c *CompositionRoot) CreateSkipActionCommandHandler() commands.SkipActionCommandHandler {
	return commands.NewSkipActionCommandHandler(c.workflowUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRollbackActionCommandHandler() commands.RollbackActionCommandHandler {
	return commands.NewRollbackActionCommandHandler(
		c.fullUoWFactory(), services.NewTransferExecutor(), c.publisher, c.logger,
	)
}

func (c *CompositionRoot) CreateRetryActionCommandHandler() commands.RetryActionCommandHandler {
	return commands.NewRetryActionCommandHandler(c.workflowUoWFactory())
}

func (c *CompositionRoot) CreateGetWorkflowProgressQueryHandler() queries.GetWorkflowProgressQueryHandler {
	return queries.NewGetWorkflowProgressQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveWorkflowsQueryHandler() queries.GetActiveWorkflowsQueryHandler {
	return queries.NewGetActiveWorkflowsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.workflowUoWFactory(), c.logger)
}

func (c *CompositionRoot) workflowUoWFactory() commands.WorkflowUoWFactory {
	return FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncWorkflowUoWFactory func() commands.WorkflowUoW

func (f FuncWorkflowUoWFactory) Create() commands.WorkflowUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
