package models

type ModuleID int

const (
	ModuleDarkPatterns ModuleID = 1
	ModulePrivacy      ModuleID = 2
	ModuleDataBreach   ModuleID = 3
)

var AllModules = []ModuleID{ModuleDarkPatterns, ModulePrivacy, ModuleDataBreach}

func (m ModuleID) IsValid() bool {
	return m >= ModuleDarkPatterns && m <= ModuleDataBreach
}
