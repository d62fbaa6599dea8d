package commands_test

import (
	"errors"
	"testing"
	"time"

	"transferflow/internal/core/application/usecases/commands"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func draftWorkflowWithActions(t *testing.T, actions int) *workflow.Workflow {
	t.Helper()

	companyID := kernel.NewUUID()
	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
		workflow.LifecycleTransition,
		testStageRef(t, companyID), testStageRef(t, companyID),
		time.Now().UTC(), kernel.NewUUID(),
	)
	require.NoError(t, err)

	for i := 0; i < actions; i++ {
		_, err = wf.AddAction(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 5000, 850.0, 12000,
		)
		require.NoError(t, err)
	}
	return wf
}

func TestPlanWorkflowCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	wf := draftWorkflowWithActions(t, 2)
	cmd, err := commands.NewPlanWorkflowCommand(wf.ID())
	require.NoError(t, err)

	repo := new(MockWorkflowRepository)
	uow := new(MockWorkflowUoW)
	// The repository accessor interleaves with the repository calls
	// (fetch, then save), so it stays outside the ordered chain.
	uow.On("WorkflowRepository").Return(repo).Twice()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", ctx, wf.ID()).Return(wf, nil).Once(),
		repo.On("Update", mock.Anything, wf).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlanWorkflowCommandHandler(factory, nopPublisher{}, testLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, workflow.Planned, wf.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPlanWorkflowCommandHandler_Handle_EmptyPlan(t *testing.T) {
	ctx := t.Context()
	wf := draftWorkflowWithActions(t, 0)
	cmd, err := commands.NewPlanWorkflowCommand(wf.ID())
	require.NoError(t, err)

	repo := new(MockWorkflowRepository)
	uow := new(MockWorkflowUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkflowRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, wf.ID()).Return(wf, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlanWorkflowCommandHandler(factory, nopPublisher{}, testLogger())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrWorkflowHasNoActions))
	assert.Equal(t, workflow.Draft, wf.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestPlanWorkflowCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	workflowID := kernel.NewUUID()
	cmd, err := commands.NewPlanWorkflowCommand(workflowID)
	require.NoError(t, err)

	repo := new(MockWorkflowRepository)
	uow := new(MockWorkflowUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkflowRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, workflowID).
			Return(nil, errs.NewObjectNotFoundError("workflow", workflowID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPlanWorkflowCommandHandler(factory, nopPublisher{}, testLogger())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrObjectNotFound))
}
