package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/views/record"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for storage calls.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	tablesView *list.NameList
	keysView   *list.NameList
	recordView *record.View
	statusBar  *status.Bar

	// table is the table whose keys are listed.
	table string

	// currentView tracks which view is active.
	currentView messages.ViewType

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.Default()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		tablesView:  list.NewNameList(s, km, "Tables", "No tables yet", s.Table),
		keysView:    list.NewNameList(s, km, "Keys", "Table is empty", s.Key),
		recordView:  record.NewView(s),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewTables,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("simplestorage"),
		a.loadTables(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		body := msg.Height - 3
		a.tablesView.SetDimensions(msg.Width, body)
		a.keysView.SetDimensions(msg.Width, body)
		a.recordView.SetDimensions(msg.Width, body)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.TablesLoaded:
		if msg.Err != nil {
			a.statusBar.SetError(msg.Err)
			return a, nil
		}
		a.tablesView.SetItems(msg.Tables)
		a.loaded(len(msg.Tables))
		return a, nil

	case messages.KeysLoaded:
		if msg.Err != nil {
			a.statusBar.SetError(msg.Err)
			return a, nil
		}
		if msg.Table != a.table {
			return a, nil
		}
		a.keysView.SetItems(msg.Keys)
		a.loaded(len(msg.Keys))
		return a, nil

	case messages.RecordLoaded:
		if msg.Err != nil {
			a.statusBar.SetError(msg.Err)
			return a, nil
		}
		a.recordView.SetRecord(msg.Table, msg.Key, msg.Value, msg.Found)
		a.loaded(0)
		return a, nil

	case messages.RecordRemoved:
		if msg.Err != nil {
			a.statusBar.SetError(msg.Err)
			return a, nil
		}
		cmd := a.loadKeys(msg.Table)
		a.statusBar.SetState(status.StateDone, fmt.Sprintf("removed %s", msg.Key))
		return a, cmd
	}

	return a, nil
}

// loaded marks a load as finished. A pending confirmation stays visible.
func (a *App) loaded(count int) {
	if a.statusBar.State() != status.StateDone {
		a.statusBar.SetState(status.StateReady, "")
	}
	a.statusBar.SetCount(count)
}

// handleKey routes a key press to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keymap.Quit) {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewTables:
		switch {
		case key.Matches(msg, a.keymap.Select):
			table, ok := a.tablesView.SelectedItem()
			if !ok {
				return a, nil
			}
			a.table = table
			a.keysView.SetItems(nil)
			a.setView(messages.ViewKeys)
			return a, a.loadKeys(table)
		case key.Matches(msg, a.keymap.Refresh):
			return a, a.loadTables()
		}
		a.tablesView, _ = a.tablesView.Update(msg)

	case messages.ViewKeys:
		switch {
		case key.Matches(msg, a.keymap.Back):
			a.setView(messages.ViewTables)
			return a, a.loadTables()
		case key.Matches(msg, a.keymap.Select):
			k, ok := a.keysView.SelectedItem()
			if !ok {
				return a, nil
			}
			a.setView(messages.ViewRecord)
			return a, a.loadRecord(a.table, k)
		case key.Matches(msg, a.keymap.Remove):
			k, ok := a.keysView.SelectedItem()
			if !ok {
				return a, nil
			}
			return a, a.removeRecord(a.table, k)
		case key.Matches(msg, a.keymap.Refresh):
			return a, a.loadKeys(a.table)
		}
		a.keysView, _ = a.keysView.Update(msg)

	case messages.ViewRecord:
		if key.Matches(msg, a.keymap.Back) {
			a.setView(messages.ViewKeys)
			return a, a.loadKeys(a.table)
		}
		var cmd tea.Cmd
		a.recordView, cmd = a.recordView.Update(msg)
		return a, cmd
	}

	return a, nil
}

// setView switches the active view and its key hints.
func (a *App) setView(view messages.ViewType) {
	a.currentView = view
	a.statusBar.SetBindings(a.keymap.Help(view))
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.currentView {
	case messages.ViewTables:
		body = a.tablesView.View()
	case messages.ViewKeys:
		body = a.styles.Table.Render(a.table) + "\n" + a.keysView.View()
	case messages.ViewRecord:
		body = a.recordView.View()
	}

	return a.styles.Header.Render("SimpleStorage") + "\n\n" + body + "\n\n" + a.statusBar.View()
}

func (a *App) loadTables() tea.Cmd {
	a.statusBar.SetState(status.StateLoading, "")
	storage, ctx := a.ports.Storage, a.ctx
	return func() tea.Msg {
		tables, err := storage.Tables(ctx)
		return messages.TablesLoaded{Tables: tables, Err: err}
	}
}

func (a *App) loadKeys(table string) tea.Cmd {
	a.statusBar.SetState(status.StateLoading, "")
	storage, ctx := a.ports.Storage, a.ctx
	return func() tea.Msg {
		keys, err := storage.Keys(ctx, table)
		return messages.KeysLoaded{Table: table, Keys: keys, Err: err}
	}
}

func (a *App) loadRecord(table, k string) tea.Cmd {
	a.statusBar.SetState(status.StateLoading, "")
	storage, ctx := a.ports.Storage, a.ctx
	return func() tea.Msg {
		var value any
		found, err := storage.Lookup(ctx, table, k, &value)
		return messages.RecordLoaded{Table: table, Key: k, Value: value, Found: found, Err: err}
	}
}

func (a *App) removeRecord(table, k string) tea.Cmd {
	storage, ctx := a.ports.Storage, a.ctx
	return func() tea.Msg {
		removed, err := storage.Remove(ctx, table, k)
		return messages.RecordRemoved{Table: table, Key: k, Removed: removed, Err: err}
	}
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Table returns the table whose keys are listed.
func (a *App) Table() string {
	return a.table
}
