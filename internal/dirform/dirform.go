// Package dirform edits the repository directory that holds migrations and
// seed files for a connection.
package dirform

import (
	"context"
	"sync"

	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/notify"
)

// KeyEscape reverts unsaved edits.
const KeyEscape = "Escape"

const operation = "update directory"

// ConnectionUpdater persists a connection's directory path.
type ConnectionUpdater interface {
	UpdateConnection(ctx context.Context, update domain.ConnectionUpdate) error
}

// Form holds the local edit next to the last confirmed value. Dirty is
// always derived from the two.
type Form struct {
	connectionID int64
	updater      ConnectionUpdater
	notifier     notify.Notifier
	log          *logger.Logger

	mu            sync.Mutex
	localEdit     string
	lastConfirmed string
	updating      bool
}

// New initializes the form from the connection's persisted directory.
func New(conn *domain.Connection, updater ConnectionUpdater, notifier notify.Notifier) *Form {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	persisted := conn.DirectoryPath()
	var id int64
	if conn != nil {
		id = conn.ID
	}
	return &Form{
		connectionID:  id,
		updater:       updater,
		notifier:      notifier,
		log:           logger.WithComponent("dirform"),
		localEdit:     persisted,
		lastConfirmed: persisted,
	}
}

// Value returns the current field value.
func (f *Form) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localEdit
}

// Persisted returns the last confirmed value.
func (f *Form) Persisted() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastConfirmed
}

// Set replaces the field value with the user's edit.
func (f *Form) Set(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.localEdit = value
}

// Dirty reports whether the field differs from the last confirmed value.
func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localEdit != f.lastConfirmed
}

// CanSubmit reports whether the update action is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.updating && f.localEdit != "" && f.localEdit != f.lastConfirmed
}

// IsUpdating reports whether a commit is in flight.
func (f *Form) IsUpdating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updating
}

// Revert discards unsaved edits.
func (f *Form) Revert() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.localEdit = f.lastConfirmed
}

// HandleKey applies a key gesture and reports whether it was handled.
func (f *Form) HandleKey(key string) bool {
	if key != KeyEscape {
		return false
	}
	f.Revert()
	return true
}

// Mirror adopts a fresh persisted value from the connection, keeping any
// local edit.
func (f *Form) Mirror(conn *domain.Connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastConfirmed = conn.DirectoryPath()
}

// Submit persists the current value for the selected organization.
//
// A nil organization or an empty value is rejected before any request is
// sent. A submit while another is in flight is ignored. The confirmed
// baseline only moves once the update succeeds.
func (f *Form) Submit(ctx context.Context, org *domain.Organization) error {
	log := f.log.WithOperation("update_directory")

	if org == nil {
		err := errors.ErrPreconditionMissing(operation, "organization id").
			WithContext("connection_id", f.connectionID)
		log.Error("Org ID is required", "connection_id", f.connectionID)
		return err
	}

	f.mu.Lock()
	if f.updating {
		f.mu.Unlock()
		return nil
	}
	value := f.localEdit
	if value == "" {
		f.mu.Unlock()
		return errors.ErrPreconditionMissing(operation, "directory path").
			WithContext("connection_id", f.connectionID)
	}
	f.updating = true
	f.mu.Unlock()

	log.Debug("committing", "connection_id", f.connectionID, "organization_id", org.ID, "workdir", value)
	err := f.updater.UpdateConnection(ctx, domain.ConnectionUpdate{
		ConnectionID:   f.connectionID,
		OrganizationID: org.ID,
		Workdir:        value,
	})

	f.mu.Lock()
	f.updating = false
	if err == nil {
		f.lastConfirmed = value
	}
	f.mu.Unlock()

	if err != nil {
		log.Warn("commit failed", "connection_id", f.connectionID, "error", err)
		f.notifier.Failure("Failed to update directory", err)
		return err
	}

	f.log.InfoOperation("update_directory", "connection_id", f.connectionID, "workdir", value)
	f.notifier.Success("Successfully updated directory")
	return nil
}
