package workflow_test

import (
	"testing"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStageRef(t *testing.T) {
	t.Run("should create valid stage reference", func(t *testing.T) {
		stageID := kernel.NewUUID()
		companyID := kernel.NewUUID()

		ref, err := workflow.NewStageRef(stageID, companyID)

		require.NoError(t, err)
		require.NoError(t, ref.Validate())
		assert.True(t, ref.StageID().IsEqual(stageID))
		assert.True(t, ref.CompanyID().IsEqual(companyID))
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		_, err := workflow.NewStageRef(kernel.UUID{}, kernel.NewUUID())
		assert.Error(t, err)

		_, err = workflow.NewStageRef(kernel.NewUUID(), kernel.UUID{})
		assert.Error(t, err)
	})

	t.Run("zero value should fail validation", func(t *testing.T) {
		var ref workflow.StageRef
		assert.ErrorIs(t, ref.Validate(), workflow.ErrStageRefIsNotConstructed)
	})
}

func TestStageRef_SameCompany(t *testing.T) {
	companyID := kernel.NewUUID()

	a, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)
	b, err := workflow.NewStageRef(kernel.NewUUID(), companyID)
	require.NoError(t, err)
	c, err := workflow.NewStageRef(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)

	assert.True(t, a.SameCompany(b))
	assert.False(t, a.SameCompany(c))
}
