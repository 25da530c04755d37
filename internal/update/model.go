package update

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/scheduler"
)

type View string

const (
	ViewChecklist View = "Checklist"
	ViewBoard     View = "Board"
	ViewMoney     View = "Money"
	ViewStats     View = "Stats"
)

var allViews = []View{ViewChecklist, ViewBoard, ViewMoney, ViewStats}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Checklist string
	Board     string
	Money     string
	Stats     string
	Help      string
	Quit      string
}

type ChecklistState struct {
	Cursor int
	Adding bool
}

type BoardState struct {
	Column int
	Card   int
	Adding bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Options wires a Model to its runtime collaborators. Everything but the
// service is optional.
type Options struct {
	Scheduler      *scheduler.Engine
	Events         *EventQueue
	NudgeHour      int
	DesktopEnabled bool
	Notifier       DesktopNotifier
	Clock          func() time.Time
	Logger         *log.Logger
}

type Model struct {
	CurrentView    View
	Service        *rewards.Service
	Scheduler      *scheduler.Engine
	EventLog       []scheduler.Event
	NudgeHour      int
	Checklist      ChecklistState
	Board          BoardState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	events         *EventQueue
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx    context.Context
	clock  func() time.Time
	logger *log.Logger

	addInput       textinput.Model
	commandInput   textinput.Model
	goalProgress   progress.Model
	payoutProgress progress.Model
	ledgerTable    table.Model
	reportViewport viewport.Model
	helpModel      help.Model
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ScheduledEventMsg struct {
	Event scheduler.Event
}

// StateChangedMsg asks the model to re-read the service snapshot, for
// changes made outside the TUI.
type StateChangedMsg struct{}

func NewModel(svc *rewards.Service, opts Options) Model {
	m := Model{
		CurrentView:    ViewChecklist,
		Service:        svc,
		Scheduler:      opts.Scheduler,
		NudgeHour:      opts.NudgeHour,
		DesktopEnabled: opts.DesktopEnabled,
		notifier:       NoopDesktopNotifier{},
		events:         opts.Events,
		Keys: GlobalKeyMap{
			Checklist: "1",
			Board:     "2",
			Money:     "3",
			Stats:     "4",
			Help:      "?",
			Quit:      "q",
		},
		ctx:    context.Background(),
		clock:  opts.Clock,
		logger: opts.Logger,
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.CharLimit = 500
	m.addInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.goalProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	m.payoutProgress = progress.New(progress.WithSolidFill("#F5C542"), progress.WithWidth(40))

	cols := []table.Column{
		{Title: "When", Width: 11},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 8},
		{Title: "Note", Width: 20},
	}
	m.ledgerTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(8))

	m.helpModel = help.New()
	m.reportViewport = viewport.New(56, 16)
}
