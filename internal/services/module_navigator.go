package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/db"
	"github.com/ad/trustsphere/internal/models"
)

const defaultLockedMessage = "🔒 Complete Module %d first to unlock this module."

type MenuEntry struct {
	Module   *catalog.Module
	Unlocked bool
	Complete bool
}

type EnterResult struct {
	Module   *catalog.Module
	Allowed  bool
	Advisory string
}

type ActionResult struct {
	Module   *catalog.Module
	Action   *catalog.Action
	Allowed  bool
	Advisory string
	// Completed is set only when this action turned the module's flag on.
	Completed bool
	Record    models.ProgressRecord
}

// ModuleNavigator gates access to modules and records completions for a user.
type ModuleNavigator struct {
	catalog      *catalog.Catalog
	progressRepo *db.ProgressRepository
	settingsRepo *db.SettingsRepository
}

func NewModuleNavigator(c *catalog.Catalog, progressRepo *db.ProgressRepository, settingsRepo *db.SettingsRepository) *ModuleNavigator {
	return &ModuleNavigator{
		catalog:      c,
		progressRepo: progressRepo,
		settingsRepo: settingsRepo,
	}
}

func (n *ModuleNavigator) Catalog() *catalog.Catalog {
	return n.catalog
}

func (n *ModuleNavigator) Record(userID int64) models.ProgressRecord {
	return n.progressRepo.StoreFor(userID).Load()
}

func (n *ModuleNavigator) Menu(userID int64) []MenuEntry {
	store := n.progressRepo.StoreFor(userID)
	record := store.Load()

	entries := make([]MenuEntry, 0, len(n.catalog.Modules))
	for i := range n.catalog.Modules {
		m := &n.catalog.Modules[i]
		entries = append(entries, MenuEntry{
			Module:   m,
			Unlocked: record.CanEnter(m.ID),
			Complete: record.IsComplete(m.ID),
		})
	}
	return entries
}

func (n *ModuleNavigator) Enter(userID int64, moduleID models.ModuleID) (*EnterResult, error) {
	module, ok := n.catalog.Module(moduleID)
	if !ok {
		return nil, fmt.Errorf("unknown module %d", moduleID)
	}

	store := n.progressRepo.StoreFor(userID)
	if !store.CanEnter(moduleID) {
		return &EnterResult{
			Module:   module,
			Advisory: n.lockedAdvisory(store.Load(), moduleID),
		}, nil
	}
	return &EnterResult{Module: module, Allowed: true}, nil
}

// Perform runs a module action. A completing action marks the module complete
// before the result is returned, so the caller's next gate check sees it.
func (n *ModuleNavigator) Perform(userID int64, moduleID models.ModuleID, actionID string) (*ActionResult, error) {
	module, ok := n.catalog.Module(moduleID)
	if !ok {
		return nil, fmt.Errorf("unknown module %d", moduleID)
	}
	action, ok := module.Action(actionID)
	if !ok {
		return nil, fmt.Errorf("unknown action %q in module %d", actionID, moduleID)
	}

	store := n.progressRepo.StoreFor(userID)
	record := store.Load()
	if !record.CanEnter(moduleID) {
		return &ActionResult{
			Module:   module,
			Action:   action,
			Advisory: n.lockedAdvisory(record, moduleID),
			Record:   record,
		}, nil
	}

	result := &ActionResult{
		Module:  module,
		Action:  action,
		Allowed: true,
		Record:  record,
	}
	if action.Completes {
		result.Record = store.MarkComplete(moduleID)
		result.Completed = !record.IsComplete(moduleID) && result.Record.IsComplete(moduleID)
		if result.Completed {
			log.Printf("[NAVIGATOR] User %d completed module %d", userID, moduleID)
		}
	}
	return result, nil
}

func (n *ModuleNavigator) lockedAdvisory(record models.ProgressRecord, moduleID models.ModuleID) string {
	template := defaultLockedMessage
	if n.settingsRepo != nil {
		if value, err := n.settingsRepo.Get("locked_message"); err == nil && value != "" {
			template = value
		} else if err != nil {
			log.Printf("[NAVIGATOR] Failed to get locked_message, using default: %v", err)
		}
	}

	prerequisite := record.Prerequisite(moduleID)
	if !strings.Contains(template, "%d") {
		return template
	}
	return fmt.Sprintf(template, prerequisite)
}
