package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestManageBoolFieldSupportsYN(t *testing.T) {
	m := manageModel{
		mode: manageModeForm,
		form: newManageForm(nil, 80),
	}
	if m.form == nil {
		t.Fatal("expected form")
	}
	m.form.Index = findFieldIndexByKey(m.form, "active")
	if m.form.Index < 0 {
		t.Fatal("active field not found")
	}

	model, _ := m.updateForm(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m2 := model.(manageModel)
	if got := m2.form.currentField().Value; got != "n" {
		t.Fatalf("expected active value n after 'n', got %q", got)
	}

	model, _ = m2.updateForm(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m3 := model.(manageModel)
	if got := m3.form.currentField().Value; got != "y" {
		t.Fatalf("expected active value y after 'y', got %q", got)
	}
}

func TestManageBoolFieldSupportsArrowAndSpace(t *testing.T) {
	m := manageModel{
		mode: manageModeForm,
		form: newManageForm(nil, 80),
	}
	if m.form == nil {
		t.Fatal("expected form")
	}
	m.form.Index = findFieldIndexByKey(m.form, "active")
	if m.form.Index < 0 {
		t.Fatal("active field not found")
	}

	model, _ := m.updateForm(tea.KeyMsg{Type: tea.KeyLeft})
	m2 := model.(manageModel)
	if got := m2.form.currentField().Value; got != "n" {
		t.Fatalf("expected active value n after left, got %q", got)
	}

	model, _ = m2.updateForm(tea.KeyMsg{Type: tea.KeyRight})
	m3 := model.(manageModel)
	if got := m3.form.currentField().Value; got != "y" {
		t.Fatalf("expected active value y after right, got %q", got)
	}

	model, _ = m3.updateForm(tea.KeyMsg{Type: tea.KeySpace})
	m4 := model.(manageModel)
	if got := m4.form.currentField().Value; got != "n" {
		t.Fatalf("expected active value n after space, got %q", got)
	}
}

func TestManageSelectFieldCyclesSortOptions(t *testing.T) {
	m := manageModel{
		mode: manageModeForm,
		form: newManageForm(nil, 80),
	}
	m.form.Index = findFieldIndexByKey(m.form, "sort_by")
	if m.form.Index < 0 {
		t.Fatal("sort_by field not found")
	}
	if got := m.form.currentField().Value; got != "" {
		t.Fatalf("expected empty inherit value, got %q", got)
	}

	model, _ := m.updateForm(tea.KeyMsg{Type: tea.KeyRight})
	m2 := model.(manageModel)
	if got := m2.form.currentField().Value; got != "recency" {
		t.Fatalf("expected recency after right, got %q", got)
	}

	model, _ = m2.updateForm(tea.KeyMsg{Type: tea.KeyRight})
	m3 := model.(manageModel)
	if got := m3.form.currentField().Value; got != "popularity" {
		t.Fatalf("expected popularity after right, got %q", got)
	}

	model, _ = m3.updateForm(tea.KeyMsg{Type: tea.KeyLeft})
	m4 := model.(manageModel)
	if got := m4.form.currentField().Value; got != "recency" {
		t.Fatalf("expected recency after left, got %q", got)
	}
}

func TestManageBrowseRunActiveSetsLaunchFlag(t *testing.T) {
	m := manageModel{
		mode:   manageModeBrowse,
		cursor: 1, // len(channels)=0 => row 0 is [+] New Channel, row 1 is Run Active Channels.
	}

	model, _ := m.updateBrowse(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := model.(manageModel)
	if !m2.launchRunActive {
		t.Fatal("expected launchRunActive=true")
	}
	if m2.statusMessage == "" {
		t.Fatal("expected non-empty status message")
	}
}

func TestManageBrowseGlobalSettingsOpensForm(t *testing.T) {
	m := manageModel{
		mode:   manageModeBrowse,
		cursor: 2, // row 2 is the Global Settings action when no channels exist.
	}

	model, _ := m.updateBrowse(tea.KeyMsg{Type: tea.KeyEnter})
	m2 := model.(manageModel)
	if m2.mode != manageModeForm {
		t.Fatalf("expected form mode, got %d", m2.mode)
	}
	if m2.form == nil || m2.form.Kind != manageFormKindGlobal {
		t.Fatal("expected global settings form")
	}
}

func findFieldIndexByKey(f *manageForm, key string) int {
	if f == nil {
		return -1
	}
	for i, field := range f.Fields {
		if field.Key == key {
			return i
		}
	}
	return -1
}
