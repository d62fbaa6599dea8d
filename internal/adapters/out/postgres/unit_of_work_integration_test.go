package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "transferflow/internal/adapters/out/postgres"
	"transferflow/internal/adapters/out/postgres/assignmentrepo"
	"transferflow/internal/adapters/out/postgres/workflowrepo"
	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&workflowrepo.WorkflowDTO{}, &workflowrepo.ActionDTO{}, &assignmentrepo.AssignmentDTO{})
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE workflows, actions, assignments").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newDraftWorkflow(number string) *workflow.Workflow {
	companyID := kernel.NewUUID()
	sourceStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	suite.Require().NoError(err)
	destinationStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	suite.Require().NoError(err)

	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(), number, kernel.NewUUID(),
		workflow.ContainerRedistribution, sourceStage, destinationStage,
		time.Now().UTC().Add(24*time.Hour), kernel.NewUUID(),
	)
	suite.Require().NoError(err)

	_, err = wf.AddAction(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 5000, 850.0, 12000)
	suite.Require().NoError(err)
	return wf
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.WorkflowRepository(), "First instance should provide workflow repository")
	suite.NotNil(uow1.AssignmentRepository(), "First instance should provide assignment repository")
	suite.NotNil(uow2.WorkflowRepository(), "Second instance should provide workflow repository")
	suite.NotNil(uow2.AssignmentRepository(), "Second instance should provide assignment repository")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitWithoutBegin() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())
	suite.Require().Error(err, "Commit without an active transaction should fail")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()
	wf := suite.newDraftWorkflow("TRF-2026-000030")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkflowRepository().Add(ctx, wf))
	suite.Require().NoError(uow.Commit(ctx))

	restored, err := suite.factory.Create().WorkflowRepository().Get(ctx, wf.ID())
	suite.Require().NoError(err)
	suite.True(restored.IsEqual(wf))
	suite.Equal(1, restored.TotalActionsPlanned())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()
	wf := suite.newDraftWorkflow("TRF-2026-000031")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkflowRepository().Add(ctx, wf))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().WorkflowRepository().Get(ctx, wf.ID())
	suite.Require().Error(err, "Rolled back workflow should not be visible")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AtomicAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	wf := suite.newDraftWorkflow("TRF-2026-000032")
	source, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 12000, 2040.0,
	)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkflowRepository().Add(ctx, wf))
	suite.Require().NoError(uow.AssignmentRepository().Add(ctx, source))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().WorkflowRepository().Get(ctx, wf.ID())
	suite.Require().Error(err)
	_, err = suite.factory.Create().AssignmentRepository().Get(ctx, source.ID())
	suite.Require().Error(err)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
