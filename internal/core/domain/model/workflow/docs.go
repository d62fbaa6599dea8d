// Package workflow provides the Workflow aggregate root for transfer
// orchestration: a logical, multi-day population transfer decomposed into
// ordered atomic actions.
//
// The package includes:
//   - Workflow: the aggregate root owning actions, lifecycle state and
//     derived progress
//   - Status: the workflow-level state machine
//     (Draft/Planned/InProgress/Completed/Cancelled)
//   - Kind: the operational classification of a transfer
//   - StageRef: a lifecycle-stage reference carrying organizational
//     ownership for intercompany detection
//
// Key business rules:
//   - Actions may be added only while the workflow is Draft
//   - A workflow cannot be planned with zero actions
//   - The first successful execution moves Planned to InProgress
//   - Completion is derived: when every action is completed or skipped,
//     progress recomputation transitions InProgress to Completed
//   - Completed and Cancelled are terminal
//
// Progress is always recomputed as a pure function of action states
// rather than incremented, so cached figures can never drift from the
// truth under concurrent execution.
package workflow
