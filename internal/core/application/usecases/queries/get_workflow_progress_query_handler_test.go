package queries_test

import (
	"context"
	"testing"
	"time"

	"transferflow/internal/adapters/out/postgres/workflowrepo"
	"transferflow/internal/core/application/usecases/queries"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetWorkflowProgressQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetWorkflowProgressQueryHandler
	repo      *workflowrepo.GormWorkflowRepository
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&workflowrepo.WorkflowDTO{}, &workflowrepo.ActionDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetWorkflowProgressQueryHandler(db)
	suite.repo = workflowrepo.NewGormWorkflowRepository(db, &mockAggregateTracker{})
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE workflows CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) TestHandle_UnknownWorkflow_ReturnsNotFound() {
	query, err := queries.NewGetWorkflowProgressQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Empty(result.Number)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) TestHandle_ReturnsProgressWithActionBreakdown() {
	ctx := context.Background()

	companyID := kernel.NewUUID()
	sourceStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	suite.Require().NoError(err)
	destinationStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	suite.Require().NoError(err)

	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
		workflow.PartialHarvestPrep, sourceStage, destinationStage,
		time.Date(2026, time.September, 14, 8, 0, 0, 0, time.UTC), kernel.NewUUID(),
	)
	suite.Require().NoError(err)

	first, err := wf.AddAction(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 5000, 850.0, 12000)
	suite.Require().NoError(err)
	second, err := wf.AddAction(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1000, 170.0, 7000)
	suite.Require().NoError(err)
	_, err = wf.AddAction(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 500, 85.0, 6000)
	suite.Require().NoError(err)

	suite.Require().NoError(wf.Plan())
	startedAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(wf.Start(startedAt))
	suite.Require().NoError(first.Complete(
		kernel.NewUUID(), 12, transferaction.Pump, nil, startedAt, startedAt.Add(time.Hour),
	))
	suite.Require().NoError(second.Skip("container already empty"))
	suite.Require().NoError(wf.RecomputeProgress(startedAt.Add(time.Hour)))
	suite.Require().NoError(suite.repo.Add(ctx, wf))

	query, err := queries.NewGetWorkflowProgressQuery(wf.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)

	suite.True(result.ID.IsEqual(wf.ID()))
	suite.Equal("TRF-2026-000042", result.Number)
	suite.Equal("InProgress", result.Status)
	suite.Equal(3, result.TotalActionsPlanned)
	suite.Equal(2, result.ActionsCompleted)
	suite.InDelta(66.6667, result.CompletionPercentage, 0.01)
	suite.Require().NotNil(result.ActualStart)
	suite.Nil(result.ActualCompletion)

	suite.Require().Len(result.Actions, 3)
	suite.Equal(1, result.Actions[0].ActionNumber)
	suite.Equal("Completed", result.Actions[0].Status)
	suite.Equal(12, result.Actions[0].Mortality)
	suite.Require().NotNil(result.Actions[0].CompletedAt)
	suite.Equal(2, result.Actions[1].ActionNumber)
	suite.Equal("Skipped", result.Actions[1].Status)
	suite.Equal(3, result.Actions[2].ActionNumber)
	suite.Equal("Pending", result.Actions[2].Status)
}

func (suite *GetWorkflowProgressQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetWorkflowProgressQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Empty(result.Actions)
	suite.Contains(err.Error(), "must be created via NewGetWorkflowProgressQuery constructor")
}

func TestGetWorkflowProgressQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetWorkflowProgressQueryHandlerTestSuite))
}
