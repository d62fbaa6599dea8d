package queries_test

import (
	"testing"

	"transferflow/internal/core/application/usecases/queries"
	"transferflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetWorkflowProgressQuery_Valid(t *testing.T) {
	id := kernel.NewUUID()
	query, err := queries.NewGetWorkflowProgressQuery(id)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.WorkflowID().IsEqual(id))
}

func TestNewGetWorkflowProgressQuery_EmptyID(t *testing.T) {
	_, err := queries.NewGetWorkflowProgressQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetWorkflowProgressQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetWorkflowProgressQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetWorkflowProgressQueryIsNotConstructed)
}
