package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/models"
	"github.com/ad/trustsphere/internal/services"
	tgmodels "github.com/go-telegram/bot/models"
)

const (
	callbackMenu         = "menu"
	callbackModulePrefix = "module:"
	callbackActionPrefix = "action:"
)

// menuKeyboard keeps locked modules visible. Their presses are answered with
// the advisory instead of opening the module.
func menuKeyboard(entries []services.MenuEntry) *tgmodels.InlineKeyboardMarkup {
	rows := make([][]tgmodels.InlineKeyboardButton, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []tgmodels.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s %d. %s", services.ModuleStatusIcon(e), e.Module.ID, e.Module.Title),
			CallbackData: fmt.Sprintf("%s%d", callbackModulePrefix, e.Module.ID),
		}})
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func moduleKeyboard(m *catalog.Module) *tgmodels.InlineKeyboardMarkup {
	rows := make([][]tgmodels.InlineKeyboardButton, 0, len(m.Actions)+1)
	for _, a := range m.Actions {
		rows = append(rows, []tgmodels.InlineKeyboardButton{{
			Text:         a.Label,
			CallbackData: fmt.Sprintf("%s%d:%s", callbackActionPrefix, m.ID, a.ID),
		}})
	}
	rows = append(rows, []tgmodels.InlineKeyboardButton{{Text: "⬅️ Modules", CallbackData: callbackMenu}})
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func menuButtonKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "📚 Modules", CallbackData: callbackMenu}},
		},
	}
}

func parseModuleCallback(data string) (models.ModuleID, error) {
	rest, ok := strings.CutPrefix(data, callbackModulePrefix)
	if !ok {
		return 0, fmt.Errorf("not a module callback: %q", data)
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid module id %q: %w", rest, err)
	}
	return models.ModuleID(id), nil
}

func parseActionCallback(data string) (models.ModuleID, string, error) {
	rest, ok := strings.CutPrefix(data, callbackActionPrefix)
	if !ok {
		return 0, "", fmt.Errorf("not an action callback: %q", data)
	}
	moduleStr, actionID, ok := strings.Cut(rest, ":")
	if !ok || actionID == "" {
		return 0, "", fmt.Errorf("missing action id in %q", data)
	}
	id, err := strconv.Atoi(moduleStr)
	if err != nil {
		return 0, "", fmt.Errorf("invalid module id %q: %w", moduleStr, err)
	}
	return models.ModuleID(id), actionID, nil
}
