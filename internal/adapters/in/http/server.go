// Package http exposes the engine's produced interface over HTTP.
// It coordinates between echo request handling and application use cases,
// translating domain failures into status codes: validation problems map
// to 400, missing objects to 404, state-machine and ledger conflicts to 409.
package http

import (
	"errors"
	"net/http"
	"time"

	"transferflow/internal/core/application/usecases/commands"
	"transferflow/internal/core/application/usecases/queries"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles the engine's HTTP surface.
type Server struct {
	// Command handlers
	createWorkflowHandler commands.CreateWorkflowCommandHandler
	addActionHandler      commands.AddActionCommandHandler
	planWorkflowHandler   commands.PlanWorkflowCommandHandler
	cancelWorkflowHandler commands.CancelWorkflowCommandHandler
	executeActionHandler  commands.ExecuteActionCommandHandler
	skipActionHandler     commands.SkipActionCommandHandler
	rollbackActionHandler commands.RollbackActionCommandHandler
	retryActionHandler    commands.RetryActionCommandHandler

	// Query handlers
	getProgressHandler        queries.GetWorkflowProgressQueryHandler
	getActiveWorkflowsHandler queries.GetActiveWorkflowsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createWorkflowHandler commands.CreateWorkflowCommandHandler,
	addActionHandler commands.AddActionCommandHandler,
	planWorkflowHandler commands.PlanWorkflowCommandHandler,
	cancelWorkflowHandler commands.CancelWorkflowCommandHandler,
	executeActionHandler commands.ExecuteActionCommandHandler,
	skipActionHandler commands.SkipActionCommandHandler,
	rollbackActionHandler commands.RollbackActionCommandHandler,
	retryActionHandler commands.RetryActionCommandHandler,
	getProgressHandler queries.GetWorkflowProgressQueryHandler,
	getActiveWorkflowsHandler queries.GetActiveWorkflowsQueryHandler,
) *Server {
	return &Server{
		createWorkflowHandler:     createWorkflowHandler,
		addActionHandler:          addActionHandler,
		planWorkflowHandler:       planWorkflowHandler,
		cancelWorkflowHandler:     cancelWorkflowHandler,
		executeActionHandler:      executeActionHandler,
		skipActionHandler:         skipActionHandler,
		rollbackActionHandler:     rollbackActionHandler,
		retryActionHandler:        retryActionHandler,
		getProgressHandler:        getProgressHandler,
		getActiveWorkflowsHandler: getActiveWorkflowsHandler,
	}
}

// RegisterRoutes attaches the engine's endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/workflows", s.CreateWorkflow)
	api.GET("/workflows/active", s.GetActiveWorkflows)
	api.POST("/workflows/:id/plan", s.PlanWorkflow)
	api.POST("/workflows/:id/cancel", s.CancelWorkflow)
	api.GET("/workflows/:id/progress", s.GetWorkflowProgress)
	api.POST("/workflows/:id/actions", s.AddAction)
	api.POST("/workflows/:id/actions/:actionID/execute", s.ExecuteAction)
	api.POST("/workflows/:id/actions/:actionID/skip", s.SkipAction)
	api.POST("/workflows/:id/actions/:actionID/rollback", s.RollbackAction)
	api.POST("/workflows/:id/actions/:actionID/retry", s.RetryAction)
}

// CreateWorkflow handles POST /api/v1/workflows - creates a workflow in Draft.
func (s *Server) CreateWorkflow(ctx echo.Context) error {
	var req CreateWorkflowRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	batchID, err := kernel.UUIDFromString(req.BatchID)
	if err != nil {
		return badRequest(ctx, "Invalid batch id: "+err.Error())
	}

	initiatorID, err := kernel.UUIDFromString(req.InitiatorID)
	if err != nil {
		return badRequest(ctx, "Invalid initiator id: "+err.Error())
	}

	sourceStage, err := stageRefFromRequest(req.SourceStage)
	if err != nil {
		return badRequest(ctx, "Invalid source stage: "+err.Error())
	}

	destinationStage, err := stageRefFromRequest(req.DestinationStage)
	if err != nil {
		return badRequest(ctx, "Invalid destination stage: "+err.Error())
	}

	kind, ok := workflowKinds[req.Kind]
	if !ok {
		return badRequest(ctx, "Invalid workflow kind: "+req.Kind)
	}

	workflowID := kernel.NewUUID()

	cmd, err := commands.NewCreateWorkflowCommand(
		workflowID, batchID, kind, sourceStage, destinationStage, req.PlannedStart, initiatorID,
	)
	if err != nil {
		return badRequest(ctx, "Invalid workflow data: "+err.Error())
	}

	if err = s.createWorkflowHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: workflowID.String()})
}

// AddAction handles POST /api/v1/workflows/:id/actions - appends one
// planned action to a draft workflow.
func (s *Server) AddAction(ctx echo.Context) error {
	workflowID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid workflow id: "+err.Error())
	}

	var req AddActionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	sourceAssignmentID, err := kernel.UUIDFromString(req.SourceAssignmentID)
	if err != nil {
		return badRequest(ctx, "Invalid source assignment id: "+err.Error())
	}

	destinationAssignmentID, err := kernel.UUIDFromString(req.DestinationAssignmentID)
	if err != nil {
		return badRequest(ctx, "Invalid destination assignment id: "+err.Error())
	}

	actionID := kernel.NewUUID()

	cmd, err := commands.NewAddActionCommand(
		workflowID, actionID, sourceAssignmentID, destinationAssignmentID,
		req.TransferredCount, req.TransferredBiomassKg,
	)
	if err != nil {
		return badRequest(ctx, "Invalid action data: "+err.Error())
	}

	if err = s.addActionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: actionID.String()})
}

// PlanWorkflow handles POST /api/v1/workflows/:id/plan - freezes the action plan.
func (s *Server) PlanWorkflow(ctx echo.Context) error {
	workflowID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid workflow id: "+err.Error())
	}

	cmd, err := commands.NewPlanWorkflowCommand(workflowID)
	if err != nil {
		return badRequest(ctx, "Invalid plan request: "+err.Error())
	}

	if err = s.planWorkflowHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelWorkflow handles POST /api/v1/workflows/:id/cancel - abandons a workflow.
func (s *Server) CancelWorkflow(ctx echo.Context) error {
	workflowID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid workflow id: "+err.Error())
	}

	var req CancelWorkflowRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelWorkflowCommand(workflowID, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancel request: "+err.Error())
	}

	if err = s.cancelWorkflowHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ExecuteAction handles POST /api/v1/workflows/:id/actions/:actionID/execute.
func (s *Server) ExecuteAction(ctx echo.Context) error {
	workflowID, actionID, err := actionPath(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req ExecuteActionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	executorID, err := kernel.UUIDFromString(req.ExecutorID)
	if err != nil {
		return badRequest(ctx, "Invalid executor id: "+err.Error())
	}

	method, ok := transferMethods[req.Method]
	if !ok {
		return badRequest(ctx, "Invalid transfer method: "+req.Method)
	}

	cmd, err := commands.NewExecuteActionCommand(
		workflowID, actionID, executorID, req.Mortality, method, req.Metadata,
	)
	if err != nil {
		return badRequest(ctx, "Invalid execution data: "+err.Error())
	}

	if err = s.executeActionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// SkipAction handles POST /api/v1/workflows/:id/actions/:actionID/skip.
func (s *Server) SkipAction(ctx echo.Context) error {
	workflowID, actionID, err := actionPath(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req SkipActionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id: "+err.Error())
	}

	cmd, err := commands.NewSkipActionCommand(workflowID, actionID, actorID, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid skip request: "+err.Error())
	}

	if err = s.skipActionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RollbackAction handles POST /api/v1/workflows/:id/actions/:actionID/rollback.
func (s *Server) RollbackAction(ctx echo.Context) error {
	workflowID, actionID, err := actionPath(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req ActorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id: "+err.Error())
	}

	cmd, err := commands.NewRollbackActionCommand(workflowID, actionID, actorID)
	if err != nil {
		return badRequest(ctx, "Invalid rollback request: "+err.Error())
	}

	if err = s.rollbackActionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RetryAction handles POST /api/v1/workflows/:id/actions/:actionID/retry.
func (s *Server) RetryAction(ctx echo.Context) error {
	workflowID, actionID, err := actionPath(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req ActorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id: "+err.Error())
	}

	cmd, err := commands.NewRetryActionCommand(workflowID, actionID, actorID)
	if err != nil {
		return badRequest(ctx, "Invalid retry request: "+err.Error())
	}

	if err = s.retryActionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetWorkflowProgress handles GET /api/v1/workflows/:id/progress.
func (s *Server) GetWorkflowProgress(ctx echo.Context) error {
	workflowID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid workflow id: "+err.Error())
	}

	query, err := queries.NewGetWorkflowProgressQuery(workflowID)
	if err != nil {
		return badRequest(ctx, "Invalid progress request: "+err.Error())
	}

	progress, err := s.getProgressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	actions := make([]ActionProgress, len(progress.Actions))
	for i, action := range progress.Actions {
		actions[i] = ActionProgress{
			ID:               action.ID.String(),
			ActionNumber:     action.ActionNumber,
			Status:           action.Status,
			TransferredCount: action.TransferredCount,
			TransferredKg:    action.TransferredKg,
			Mortality:        action.Mortality,
			CompletedAt:      action.CompletedAt,
		}
	}

	return ctx.JSON(http.StatusOK, WorkflowProgress{
		ID:                   progress.ID.String(),
		Number:               progress.Number,
		Status:               progress.Status,
		TotalActionsPlanned:  progress.TotalActionsPlanned,
		ActionsCompleted:     progress.ActionsCompleted,
		CompletionPercentage: progress.CompletionPercentage,
		ActualStart:          progress.ActualStart,
		ActualCompletion:     progress.ActualCompletion,
		Actions:              actions,
	})
}

// GetActiveWorkflows handles GET /api/v1/workflows/active.
func (s *Server) GetActiveWorkflows(ctx echo.Context) error {
	query := queries.NewGetActiveWorkflowsQuery()

	workflows, err := s.getActiveWorkflowsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]ActiveWorkflow, len(workflows))
	for i, wf := range workflows {
		response[i] = ActiveWorkflow{
			ID:                   wf.ID.String(),
			Number:               wf.Number,
			BatchID:              wf.BatchID.String(),
			Kind:                 wf.Kind,
			Status:               wf.Status,
			PlannedStart:         wf.PlannedStart,
			IsIntercompany:       wf.IsIntercompany,
			TotalActionsPlanned:  wf.TotalActionsPlanned,
			ActionsCompleted:     wf.ActionsCompleted,
			CompletionPercentage: wf.CompletionPercentage,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// workflowKinds maps request values to domain kinds.
var workflowKinds = map[string]workflow.Kind{
	"lifecycle_transition":     workflow.LifecycleTransition,
	"container_redistribution": workflow.ContainerRedistribution,
	"emergency_cascade":        workflow.EmergencyCascade,
	"partial_harvest_prep":     workflow.PartialHarvestPrep,
}

// transferMethods maps request values to domain methods.
var transferMethods = map[string]transferaction.Method{
	"net":     transferaction.Net,
	"pump":    transferaction.Pump,
	"gravity": transferaction.Gravity,
	"manual":  transferaction.Manual,
}

func stageRefFromRequest(req StageRefRequest) (workflow.StageRef, error) {
	stageID, err := kernel.UUIDFromString(req.StageID)
	if err != nil {
		return workflow.StageRef{}, err
	}

	companyID, err := kernel.UUIDFromString(req.CompanyID)
	if err != nil {
		return workflow.StageRef{}, err
	}

	return workflow.NewStageRef(stageID, companyID)
}

func actionPath(ctx echo.Context) (workflowID, actionID kernel.UUID, err error) {
	workflowID, err = kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid workflow id: " + err.Error())
	}

	actionID, err = kernel.UUIDFromString(ctx.Param("actionID"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid action id: " + err.Error())
	}

	return workflowID, actionID, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError translates a failed use case into an HTTP response.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrStateTransition),
		errors.Is(err, errs.ErrInsufficientSourcePopulation),
		errors.Is(err, errs.ErrDestinationAlreadyDrawn),
		errors.Is(err, errs.ErrWorkflowHasNoActions),
		errors.Is(err, errs.ErrDuplicateActionNumber),
		errors.Is(err, errs.ErrConcurrencyConflict):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal error",
		})
	}
}

// Request and response payloads for the engine's HTTP surface.
type (
	// StageRefRequest identifies a lifecycle stage and its owning company.
	StageRefRequest struct {
		StageID   string `json:"stage_id"`
		CompanyID string `json:"company_id"`
	}

	// CreateWorkflowRequest carries the data for a new draft workflow.
	CreateWorkflowRequest struct {
		BatchID          string          `json:"batch_id"`
		Kind             string          `json:"kind"`
		SourceStage      StageRefRequest `json:"source_stage"`
		DestinationStage StageRefRequest `json:"destination_stage"`
		PlannedStart     time.Time       `json:"planned_start"`
		InitiatorID      string          `json:"initiator_id"`
	}

	// AddActionRequest carries the data for one planned action.
	AddActionRequest struct {
		SourceAssignmentID      string  `json:"source_assignment_id"`
		DestinationAssignmentID string  `json:"destination_assignment_id"`
		TransferredCount        int     `json:"transferred_count"`
		TransferredBiomassKg    float64 `json:"transferred_biomass_kg"`
	}

	// CancelWorkflowRequest carries the operator's cancellation reason.
	CancelWorkflowRequest struct {
		Reason string `json:"reason"`
	}

	// ExecuteActionRequest carries the operator-observed execution details.
	ExecuteActionRequest struct {
		ExecutorID string         `json:"executor_id"`
		Mortality  int            `json:"mortality"`
		Method     string         `json:"method"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}

	// SkipActionRequest carries the mandatory skip explanation.
	SkipActionRequest struct {
		ActorID string `json:"actor_id"`
		Reason  string `json:"reason"`
	}

	// ActorRequest identifies who requests a rollback or retry.
	ActorRequest struct {
		ActorID string `json:"actor_id"`
	}

	// CreatedResponse returns the identifier of a newly created object.
	CreatedResponse struct {
		ID string `json:"id"`
	}

	// WorkflowProgress is the progress snapshot of one workflow.
	WorkflowProgress struct {
		ID                   string           `json:"id"`
		Number               string           `json:"number"`
		Status               string           `json:"status"`
		TotalActionsPlanned  int              `json:"total_actions_planned"`
		ActionsCompleted     int              `json:"actions_completed"`
		CompletionPercentage float64          `json:"completion_percentage"`
		ActualStart          *time.Time       `json:"actual_start,omitempty"`
		ActualCompletion     *time.Time       `json:"actual_completion,omitempty"`
		Actions              []ActionProgress `json:"actions"`
	}

	// ActionProgress is one action's contribution to workflow progress.
	ActionProgress struct {
		ID               string     `json:"id"`
		ActionNumber     int        `json:"action_number"`
		Status           string     `json:"status"`
		TransferredCount int        `json:"transferred_count"`
		TransferredKg    float64    `json:"transferred_kg"`
		Mortality        int        `json:"mortality"`
		CompletedAt      *time.Time `json:"completed_at,omitempty"`
	}

	// ActiveWorkflow is one non-terminal workflow in the list view.
	ActiveWorkflow struct {
		ID                   string    `json:"id"`
		Number               string    `json:"number"`
		BatchID              string    `json:"batch_id"`
		Kind                 string    `json:"kind"`
		Status               string    `json:"status"`
		PlannedStart         time.Time `json:"planned_start"`
		IsIntercompany       bool      `json:"is_intercompany"`
		TotalActionsPlanned  int       `json:"total_actions_planned"`
		ActionsCompleted     int       `json:"actions_completed"`
		CompletionPercentage float64   `json:"completion_percentage"`
	}

	// Error is the uniform failure payload.
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)
