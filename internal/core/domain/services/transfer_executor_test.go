package services_test

import (
	"errors"
	"testing"
	"time"

	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/core/domain/services"
	"transferflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executionFixture struct {
	workflow    *workflow.Workflow
	action      *transferaction.Action
	source      *assignment.Assignment
	destination *assignment.Assignment
}

// newExecutionFixture builds a planned workflow whose first action moves
// 5000 fish (850 kg) out of a source assignment holding 12000 fish
// (2040 kg). extraActions pads the plan so the workflow stays InProgress
// after the first execution.
func newExecutionFixture(t *testing.T, extraActions int) executionFixture {
	t.Helper()

	source, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 12000, 2040.0,
	)
	require.NoError(t, err)

	destination, err := assignment.NewAssignment(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, 0,
	)
	require.NoError(t, err)

	companyID := kernel.NewUUID()
	sourceStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)
	destinationStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)

	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
		workflow.LifecycleTransition, sourceStage, destinationStage,
		time.Now().UTC(), kernel.NewUUID(),
	)
	require.NoError(t, err)

	action, err := wf.AddAction(
		kernel.NewUUID(), source.ID(), destination.ID(), 5000, 850.0, 12000,
	)
	require.NoError(t, err)

	for i := 0; i < extraActions; i++ {
		_, err = wf.AddAction(
			kernel.NewUUID(), source.ID(), destination.ID(), 1000, 170.0, 7000,
		)
		require.NoError(t, err)
	}

	require.NoError(t, wf.Plan())

	return executionFixture{
		workflow:    wf,
		action:      action,
		source:      source,
		destination: destination,
	}
}

func executionParams(mortality int) services.ExecutionParams {
	startedAt := time.Now().UTC()
	return services.ExecutionParams{
		ExecutorID:  kernel.NewUUID(),
		Mortality:   mortality,
		Method:      transferaction.Pump,
		StartedAt:   startedAt,
		CompletedAt: startedAt.Add(2 * time.Hour),
	}
}

func TestTransferExecutor_Execute(t *testing.T) {
	executor := services.NewTransferExecutor()

	t.Run("should move population and lift workflow in progress", func(t *testing.T) {
		f := newExecutionFixture(t, 1)
		params := executionParams(12)

		err := executor.Execute(f.workflow, f.action, f.source, f.destination, params)

		require.NoError(t, err)

		// source loses the transferred fish plus the mortality, with
		// mortality biomass estimated at the transfer's average weight
		assert.Equal(t, 6988, f.source.Count())
		assert.InDelta(t, 1187.96, f.source.BiomassKg(), 0.0001)

		assert.Equal(t, 5000, f.destination.Count())
		assert.InDelta(t, 850.0, f.destination.BiomassKg(), 0.0001)

		assert.Equal(t, transferaction.Completed, f.action.Status())
		assert.Equal(t, 12, f.action.MortalityDuringTransfer())

		assert.Equal(t, workflow.InProgress, f.workflow.Status())
		require.NotNil(t, f.workflow.ActualStart())
		assert.Equal(t, 1, f.workflow.ActionsCompleted())
	})

	t.Run("should auto-complete single-action workflow", func(t *testing.T) {
		f := newExecutionFixture(t, 0)

		err := executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(0))

		require.NoError(t, err)
		assert.Equal(t, workflow.Completed, f.workflow.Status())
		require.NotNil(t, f.workflow.ActualCompletion())
		assert.InDelta(t, 100.0, f.workflow.CompletionPercentage(), 0.0001)
	})

	t.Run("should refuse demand exceeding live source count", func(t *testing.T) {
		f := newExecutionFixture(t, 1)

		// 5000 transferred + 7001 mortality > 12000 live
		err := executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(7001))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrInsufficientSourcePopulation))

		// nothing was mutated
		assert.Equal(t, 12000, f.source.Count())
		assert.InDelta(t, 2040.0, f.source.BiomassKg(), 0.0001)
		assert.Zero(t, f.destination.Count())
		assert.Equal(t, transferaction.Pending, f.action.Status())
		assert.Equal(t, workflow.Planned, f.workflow.Status())
	})

	t.Run("should refuse execution on draft workflow", func(t *testing.T) {
		f := newExecutionFixture(t, 0)

		err := executor.Execute(draftWorkflow(t), f.action, f.source, f.destination, executionParams(0))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})

	t.Run("should refuse re-executing a completed action", func(t *testing.T) {
		f := newExecutionFixture(t, 1)
		require.NoError(t, executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(0)))

		err := executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(0))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
		assert.Equal(t, 7000, f.source.Count())
	})

	t.Run("should refuse pending action after cancellation", func(t *testing.T) {
		f := newExecutionFixture(t, 1)
		require.NoError(t, executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(0)))
		require.NoError(t, f.workflow.Cancel("disease outbreak at destination"))

		pending := f.workflow.Actions()[1]
		err := executor.Execute(f.workflow, pending, f.source, f.destination, executionParams(0))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))

		// the completed move survives cancellation; the pending one
		// never touches the ledger
		assert.Equal(t, workflow.Cancelled, f.workflow.Status())
		assert.Equal(t, 7000, f.source.Count())
		assert.Equal(t, 5000, f.destination.Count())
		assert.Equal(t, transferaction.Pending, pending.Status())
	})

	t.Run("should refuse negative mortality", func(t *testing.T) {
		f := newExecutionFixture(t, 0)

		err := executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(-1))

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
		assert.Equal(t, transferaction.Pending, f.action.Status())
	})

	t.Run("should refuse mismatched ledger assignments", func(t *testing.T) {
		f := newExecutionFixture(t, 0)
		other, err := assignment.NewAssignment(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 100, 17.0,
		)
		require.NoError(t, err)

		execErr := executor.Execute(f.workflow, f.action, other, f.destination, executionParams(0))

		require.Error(t, execErr)
		assert.Contains(t, execErr.Error(), "source assignment does not match action")
	})
}

// draftWorkflow creates a fresh workflow that is still in Draft.
func draftWorkflow(t *testing.T) *workflow.Workflow {
	t.Helper()

	companyID := kernel.NewUUID()
	sourceStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)
	destinationStage, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)

	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(), "TRF-2026-000099", kernel.NewUUID(),
		workflow.LifecycleTransition, sourceStage, destinationStage,
		time.Now().UTC(), kernel.NewUUID(),
	)
	require.NoError(t, err)
	return wf
}

func TestTransferExecutor_Rollback(t *testing.T) {
	executor := services.NewTransferExecutor()

	executed := func(t *testing.T, mortality int) executionFixture {
		t.Helper()
		f := newExecutionFixture(t, 1)
		require.NoError(t, executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(mortality)))
		return f
	}

	t.Run("should restore both assignments and return action to pending", func(t *testing.T) {
		f := executed(t, 12)

		err := executor.Rollback(f.workflow, f.action, f.source, f.destination, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, 12000, f.source.Count())
		assert.InDelta(t, 2040.0, f.source.BiomassKg(), 0.0001)
		assert.Zero(t, f.destination.Count())
		assert.InDelta(t, 0.0, f.destination.BiomassKg(), 0.0001)

		assert.Equal(t, transferaction.Pending, f.action.Status())
		assert.Zero(t, f.action.MortalityDuringTransfer())
		assert.Nil(t, f.action.Executor())

		assert.Equal(t, workflow.InProgress, f.workflow.Status())
		assert.Zero(t, f.workflow.ActionsCompleted())
	})

	t.Run("should refuse when destination was already drawn down", func(t *testing.T) {
		f := executed(t, 0)

		// a later transfer already took fish out of the destination
		require.NoError(t, f.destination.Deduct(4500, 765.0))

		err := executor.Rollback(f.workflow, f.action, f.source, f.destination, time.Now().UTC())

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrDestinationAlreadyDrawn))

		// nothing was mutated
		assert.Equal(t, 7000, f.source.Count())
		assert.Equal(t, 500, f.destination.Count())
		assert.Equal(t, transferaction.Completed, f.action.Status())
	})

	t.Run("should refuse rollback of pending action", func(t *testing.T) {
		f := newExecutionFixture(t, 1)
		require.NoError(t, f.workflow.Start(time.Now().UTC()))

		err := executor.Rollback(f.workflow, f.action, f.source, f.destination, time.Now().UTC())

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})

	t.Run("should refuse rollback on completed workflow", func(t *testing.T) {
		f := newExecutionFixture(t, 0)
		require.NoError(t, executor.Execute(f.workflow, f.action, f.source, f.destination, executionParams(0)))
		require.Equal(t, workflow.Completed, f.workflow.Status())

		err := executor.Rollback(f.workflow, f.action, f.source, f.destination, time.Now().UTC())

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})
}
