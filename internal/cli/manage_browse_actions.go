package cli

import (
	"fmt"
	"strings"

	"yt-sub-archiver/internal/registry"

	tea "github.com/charmbracelet/bubbletea"
)

type manageAction int

const (
	manageActionRunActive manageAction = iota
	manageActionGlobalSettings
)

var manageActions = []struct {
	Action manageAction
	Label  string
}{
	{manageActionRunActive, "Run Active Channels"},
	{manageActionGlobalSettings, "Global Settings"},
}

// Browse rows are channels, then the new-channel row, then actions.
func (m manageModel) totalBrowseRows() int {
	return len(m.channels) + 1 + len(manageActions)
}

func (m manageModel) isActionCursor() bool {
	return m.cursor >= len(m.channels)+1
}

func (m manageModel) selectedActionIndex() manageAction {
	idx := m.cursor - len(m.channels) - 1
	if idx < 0 || idx >= len(manageActions) {
		return manageActionRunActive
	}
	return manageActions[idx].Action
}

func (m manageModel) renderActionsPanel(width int) string {
	activeCount := 0
	for _, c := range m.channels {
		if registry.IsChannelActive(c) {
			activeCount++
		}
	}

	lines := make([]string, 0, len(manageActions)+2)
	lines = append(lines, manageMutedStyle.Render("Actions"))
	for i, a := range manageActions {
		label := a.Label
		if a.Action == manageActionRunActive {
			label = fmt.Sprintf("%s (%d active)", label, activeCount)
		}
		label = truncateRunes(label, maxInt(width-6, 10))
		rowIndex := len(m.channels) + 1 + i
		if rowIndex == m.cursor {
			label = manageSelStyle.Width(maxInt(width-4, 6)).Render(label)
		}
		lines = append(lines, label)
	}
	content := strings.Join(lines, "\n")
	return managePanelStyle.Width(width).Render(content)
}

func toggleChannelActiveCmd(configPath string, channel registry.Channel) tea.Cmd {
	return func() tea.Msg {
		next := !registry.IsChannelActive(channel)
		_, err := registry.AddChannel(registry.AddChannelOptions{
			ConfigPath:          configPath,
			Name:                channel.Name,
			Identifier:          channel.Identifier,
			MaxVideos:           channel.MaxVideos,
			SortBy:              channel.SortBy,
			SubLangs:            channel.SubLangs,
			Active:              boolPtr(next),
			ReplaceIfNameExists: true,
		})
		if err != nil {
			return manageSaveMsg{err: err}
		}
		state := "inactive"
		if next {
			state = "active"
		}
		return manageSaveMsg{message: "channel " + channel.Name + " set " + state}
	}
}
