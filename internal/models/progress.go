package models

// ProgressRecord is the persisted completion state of one storage origin.
// Field names match the stored JSON layout.
type ProgressRecord struct {
	Module1Complete bool `json:"module1Complete"`
	Module2Complete bool `json:"module2Complete"`
	Module3Complete bool `json:"module3Complete"`
}

func (r ProgressRecord) IsComplete(module ModuleID) bool {
	switch module {
	case ModuleDarkPatterns:
		return r.Module1Complete
	case ModulePrivacy:
		return r.Module2Complete
	case ModuleDataBreach:
		return r.Module3Complete
	default:
		return false
	}
}

// WithComplete returns a copy with the module's flag set. Flags are never cleared.
func (r ProgressRecord) WithComplete(module ModuleID) ProgressRecord {
	switch module {
	case ModuleDarkPatterns:
		r.Module1Complete = true
	case ModulePrivacy:
		r.Module2Complete = true
	case ModuleDataBreach:
		r.Module3Complete = true
	}
	return r
}

// Merge ORs the flags of both records.
func (r ProgressRecord) Merge(other ProgressRecord) ProgressRecord {
	return ProgressRecord{
		Module1Complete: r.Module1Complete || other.Module1Complete,
		Module2Complete: r.Module2Complete || other.Module2Complete,
		Module3Complete: r.Module3Complete || other.Module3Complete,
	}
}

func (r ProgressRecord) CompletedCount() int {
	count := 0
	for _, m := range AllModules {
		if r.IsComplete(m) {
			count++
		}
	}
	return count
}

func (r ProgressRecord) AllComplete() bool {
	return r.CompletedCount() == len(AllModules)
}

// CanEnter reports whether the module's prerequisites are satisfied by the record.
func (r ProgressRecord) CanEnter(module ModuleID) bool {
	switch module {
	case ModuleDarkPatterns:
		return true
	case ModulePrivacy:
		return r.Module1Complete
	case ModuleDataBreach:
		return r.Module1Complete && r.Module2Complete
	default:
		return false
	}
}

// Prerequisite returns the first incomplete module that blocks entry, or 0.
func (r ProgressRecord) Prerequisite(module ModuleID) ModuleID {
	if !module.IsValid() {
		return 0
	}
	for _, m := range AllModules {
		if m >= module {
			break
		}
		if !r.IsComplete(m) {
			return m
		}
	}
	return 0
}
