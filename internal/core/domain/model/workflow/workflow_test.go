package workflow_test

import (
	"errors"
	"testing"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStageRef(t *testing.T, companyID kernel.UUID) workflow.StageRef {
	t.Helper()

	ref, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)
	return ref
}

func newDraftWorkflow(t *testing.T) *workflow.Workflow {
	t.Helper()

	companyID := kernel.NewUUID()
	wf, err := workflow.NewWorkflow(
		kernel.NewUUID(),
		"TRF-2026-000042",
		kernel.NewUUID(),
		workflow.LifecycleTransition,
		mustStageRef(t, companyID),
		mustStageRef(t, companyID),
		time.Now().UTC().Add(24*time.Hour),
		kernel.NewUUID(),
	)
	require.NoError(t, err)
	return wf
}

func addAction(t *testing.T, wf *workflow.Workflow) *transferaction.Action {
	t.Helper()

	action, err := wf.AddAction(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 5000, 850.0, 12000,
	)
	require.NoError(t, err)
	return action
}

func completeAction(t *testing.T, action *transferaction.Action) {
	t.Helper()

	startedAt := time.Now().UTC()
	err := action.Complete(
		kernel.NewUUID(), 10, transferaction.Pump, nil, startedAt, startedAt.Add(2*time.Hour),
	)
	require.NoError(t, err)
}

func TestNewWorkflow(t *testing.T) {
	t.Run("should create workflow in draft with no actions", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		assert.Equal(t, workflow.Draft, wf.Status())
		assert.Equal(t, "TRF-2026-000042", wf.Number())
		assert.Zero(t, wf.TotalActionsPlanned())
		assert.Zero(t, wf.ActionsCompleted())
		assert.Zero(t, wf.CompletionPercentage())
		assert.Nil(t, wf.ActualStart())
		assert.Nil(t, wf.ActualCompletion())
	})

	t.Run("should derive intercompany from stage ownership", func(t *testing.T) {
		companyID := kernel.NewUUID()

		sameCompany, err := workflow.NewWorkflow(
			kernel.NewUUID(), "TRF-2026-000001", kernel.NewUUID(),
			workflow.ContainerRedistribution,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), kernel.NewUUID(),
		)
		require.NoError(t, err)
		assert.False(t, sameCompany.IsIntercompany())

		crossCompany, err := workflow.NewWorkflow(
			kernel.NewUUID(), "TRF-2026-000002", kernel.NewUUID(),
			workflow.ContainerRedistribution,
			mustStageRef(t, kernel.NewUUID()), mustStageRef(t, kernel.NewUUID()),
			time.Now().UTC(), kernel.NewUUID(),
		)
		require.NoError(t, err)
		assert.True(t, crossCompany.IsIntercompany())
	})

	t.Run("should reject empty number", func(t *testing.T) {
		companyID := kernel.NewUUID()
		_, err := workflow.NewWorkflow(
			kernel.NewUUID(), "", kernel.NewUUID(),
			workflow.LifecycleTransition,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), kernel.NewUUID(),
		)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should reject zero planned start", func(t *testing.T) {
		companyID := kernel.NewUUID()
		_, err := workflow.NewWorkflow(
			kernel.NewUUID(), "TRF-2026-000003", kernel.NewUUID(),
			workflow.LifecycleTransition,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Time{}, kernel.NewUUID(),
		)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should reject invalid kind", func(t *testing.T) {
		companyID := kernel.NewUUID()
		_, err := workflow.NewWorkflow(
			kernel.NewUUID(), "TRF-2026-000004", kernel.NewUUID(),
			workflow.KindUnknown,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), kernel.NewUUID(),
		)

		assert.Error(t, err)
	})
}

func TestWorkflow_AddAction(t *testing.T) {
	t.Run("should number actions contiguously from 1", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		first := addAction(t, wf)
		second := addAction(t, wf)
		third := addAction(t, wf)

		assert.Equal(t, 1, first.ActionNumber())
		assert.Equal(t, 2, second.ActionNumber())
		assert.Equal(t, 3, third.ActionNumber())
		assert.Equal(t, 3, wf.TotalActionsPlanned())
	})

	t.Run("should reject action after plan", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)
		require.NoError(t, wf.Plan())

		_, err := wf.AddAction(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 100, 17.0, 500,
		)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
		assert.Contains(t, err.Error(), "cannot add action workflow in state Planned")
	})

	t.Run("should propagate invalid action parameters", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		_, err := wf.AddAction(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, 17.0, 500,
		)

		require.Error(t, err)
		assert.Equal(t, 0, wf.TotalActionsPlanned())
	})
}

func TestWorkflow_Plan(t *testing.T) {
	t.Run("should transition draft to planned", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)

		require.NoError(t, wf.Plan())

		assert.Equal(t, workflow.Planned, wf.Status())
	})

	t.Run("should refuse empty plan", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		err := wf.Plan()

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrWorkflowHasNoActions))
		assert.Equal(t, workflow.Draft, wf.Status())
	})

	t.Run("should refuse planning twice", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)
		require.NoError(t, wf.Plan())

		err := wf.Plan()

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})
}

func TestWorkflow_Start(t *testing.T) {
	t.Run("should transition planned to in progress and stamp actual start", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)
		require.NoError(t, wf.Plan())

		startedAt := time.Now().UTC()
		require.NoError(t, wf.Start(startedAt))

		assert.Equal(t, workflow.InProgress, wf.Status())
		require.NotNil(t, wf.ActualStart())
		assert.Equal(t, startedAt, *wf.ActualStart())
	})

	t.Run("should be idempotent for in-progress workflow", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)
		require.NoError(t, wf.Plan())

		firstStart := time.Now().UTC()
		require.NoError(t, wf.Start(firstStart))
		require.NoError(t, wf.Start(firstStart.Add(time.Hour)))

		assert.Equal(t, workflow.InProgress, wf.Status())
		assert.Equal(t, firstStart, *wf.ActualStart())
	})

	t.Run("should refuse to start draft workflow", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		err := wf.Start(time.Now().UTC())

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})
}

func TestWorkflow_Cancel(t *testing.T) {
	t.Run("should cancel with reason", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		require.NoError(t, wf.Cancel("batch condemned"))

		assert.Equal(t, workflow.Cancelled, wf.Status())
		assert.Equal(t, "batch condemned", wf.CancelReason())
	})

	t.Run("should cancel in-progress workflow", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		addAction(t, wf)
		require.NoError(t, wf.Plan())
		require.NoError(t, wf.Start(time.Now().UTC()))

		require.NoError(t, wf.Cancel("disease outbreak at destination"))

		assert.Equal(t, workflow.Cancelled, wf.Status())
	})

	t.Run("should require a reason", func(t *testing.T) {
		wf := newDraftWorkflow(t)

		err := wf.Cancel("")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
		assert.Equal(t, workflow.Draft, wf.Status())
	})

	t.Run("should refuse to cancel completed workflow", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		action := addAction(t, wf)
		require.NoError(t, wf.Plan())
		require.NoError(t, wf.Start(time.Now().UTC()))
		completeAction(t, action)
		require.NoError(t, wf.RecomputeProgress(time.Now().UTC()))
		require.Equal(t, workflow.Completed, wf.Status())

		err := wf.Cancel("too late")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrStateTransition))
	})
}

func TestWorkflow_RecomputeProgress(t *testing.T) {
	t.Run("should derive progress from action states", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		first := addAction(t, wf)
		second := addAction(t, wf)
		addAction(t, wf)
		addAction(t, wf)
		require.NoError(t, wf.Plan())
		require.NoError(t, wf.Start(time.Now().UTC()))

		completeAction(t, first)
		require.NoError(t, second.Skip("container already empty"))
		require.NoError(t, wf.RecomputeProgress(time.Now().UTC()))

		assert.Equal(t, 2, wf.ActionsCompleted())
		assert.InDelta(t, 50.0, wf.CompletionPercentage(), 0.0001)
		assert.Equal(t, workflow.InProgress, wf.Status())
		assert.Nil(t, wf.ActualCompletion())
	})

	t.Run("should complete workflow when every action is handled", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		first := addAction(t, wf)
		second := addAction(t, wf)
		require.NoError(t, wf.Plan())
		require.NoError(t, wf.Start(time.Now().UTC()))

		completeAction(t, first)
		completeAction(t, second)
		completedAt := time.Now().UTC()
		require.NoError(t, wf.RecomputeProgress(completedAt))

		assert.Equal(t, workflow.Completed, wf.Status())
		assert.InDelta(t, 100.0, wf.CompletionPercentage(), 0.0001)
		require.NotNil(t, wf.ActualCompletion())
		assert.Equal(t, completedAt, *wf.ActualCompletion())
	})

	t.Run("should leave planned workflow planned when actions are skipped", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		action := addAction(t, wf)
		require.NoError(t, wf.Plan())

		require.NoError(t, action.Skip("transfer no longer needed"))
		require.NoError(t, wf.RecomputeProgress(time.Now().UTC()))

		assert.Equal(t, workflow.Planned, wf.Status())
		assert.InDelta(t, 100.0, wf.CompletionPercentage(), 0.0001)
		assert.Nil(t, wf.ActualCompletion())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		wf := newDraftWorkflow(t)
		action := addAction(t, wf)
		require.NoError(t, wf.Plan())
		require.NoError(t, wf.Start(time.Now().UTC()))
		completeAction(t, action)

		completedAt := time.Now().UTC()
		require.NoError(t, wf.RecomputeProgress(completedAt))
		require.NoError(t, wf.RecomputeProgress(completedAt.Add(time.Hour)))

		assert.Equal(t, workflow.Completed, wf.Status())
		assert.Equal(t, completedAt, *wf.ActualCompletion())
	})
}

func TestWorkflow_Action(t *testing.T) {
	wf := newDraftWorkflow(t)
	action := addAction(t, wf)
	addAction(t, wf)

	t.Run("should find owned action", func(t *testing.T) {
		found, err := wf.Action(action.ID())

		require.NoError(t, err)
		assert.True(t, found.IsEqual(action))
	})

	t.Run("should report unknown action", func(t *testing.T) {
		_, err := wf.Action(kernel.NewUUID())

		assert.ErrorIs(t, err, workflow.ErrActionNotFound)
	})
}

func TestRestoreWorkflow(t *testing.T) {
	restoreAction := func(t *testing.T, number int) *transferaction.Action {
		t.Helper()
		action, err := transferaction.NewAction(
			kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(), 100, 17.0, 500,
		)
		require.NoError(t, err)
		return action
	}

	t.Run("should restore workflow with derived progress", func(t *testing.T) {
		companyID := kernel.NewUUID()
		first := restoreAction(t, 1)
		second := restoreAction(t, 2)
		completeAction(t, first)

		startedAt := time.Now().UTC()
		wf, err := workflow.RestoreWorkflow(
			kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
			workflow.EmergencyCascade, workflow.InProgress,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			startedAt.Add(-time.Hour), &startedAt, nil, "", false, kernel.NewUUID(),
			[]*transferaction.Action{first, second},
		)

		require.NoError(t, err)
		assert.Equal(t, workflow.InProgress, wf.Status())
		assert.Equal(t, 2, wf.TotalActionsPlanned())
		assert.Equal(t, 1, wf.ActionsCompleted())
		assert.InDelta(t, 50.0, wf.CompletionPercentage(), 0.0001)
	})

	t.Run("should reject duplicate action numbers", func(t *testing.T) {
		companyID := kernel.NewUUID()

		_, err := workflow.RestoreWorkflow(
			kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
			workflow.LifecycleTransition, workflow.Planned,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), nil, nil, "", false, kernel.NewUUID(),
			[]*transferaction.Action{restoreAction(t, 1), restoreAction(t, 1)},
		)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrDuplicateActionNumber))
	})

	t.Run("should reject non-contiguous action numbers", func(t *testing.T) {
		companyID := kernel.NewUUID()

		_, err := workflow.RestoreWorkflow(
			kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
			workflow.LifecycleTransition, workflow.Planned,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), nil, nil, "", false, kernel.NewUUID(),
			[]*transferaction.Action{restoreAction(t, 1), restoreAction(t, 3)},
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not contiguous")
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		companyID := kernel.NewUUID()

		_, err := workflow.RestoreWorkflow(
			kernel.NewUUID(), "TRF-2026-000042", kernel.NewUUID(),
			workflow.LifecycleTransition, workflow.StatusUnknown,
			mustStageRef(t, companyID), mustStageRef(t, companyID),
			time.Now().UTC(), nil, nil, "", false, kernel.NewUUID(),
			nil,
		)

		assert.Error(t, err)
	})
}
