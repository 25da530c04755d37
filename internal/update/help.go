package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/chorejar/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	global := toKeyBindings(m.globalBindings())
	local := toKeyBindings(m.viewBindings())
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	m.helpModel.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global, local},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Checklist, Action: "checklist"},
		{Key: m.Keys.Board, Action: "board"},
		{Key: m.Keys.Money, Action: "money"},
		{Key: m.Keys.Stats, Action: "stats"},
		{Key: "tab", Action: "next view"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewChecklist:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "mark done / undo"},
			{Key: "a", Action: "add a task"},
			{Key: "x", Action: "delete task"},
		}
	case ViewBoard:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next column"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "</>", Action: "move card left/right"},
			{Key: "a", Action: "add a card"},
			{Key: "x", Action: "delete card"},
		}
	case ViewMoney:
		return []KeyBinding{
			{Key: "e", Action: "exchange stars"},
			{Key: "d/w", Action: "deposit / withdraw piggy"},
			{Key: "p", Action: "pay out the piggy bank"},
		}
	case ViewStats:
		return []KeyBinding{
			{Key: "j/k", Action: "scroll report"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func toKeyBindings(in []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, kb := range in {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
