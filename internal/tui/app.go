package tui

import (
	"context"
	"errors"
	"fmt"
	"layer-comparator/internal/catalog"
	"layer-comparator/internal/export"
	"layer-comparator/internal/session"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field is one of the five selection dropdowns, in focus order.
type Field int

const (
	FieldContext Field = iota
	FieldPreviousVersion
	FieldNextVersion
	FieldPreviousVariant
	FieldNextVariant
	fieldCount
)

// chrome is the number of terminal rows taken by everything but the preview.
const chrome = 9

type Config struct {
	Context string
	Variant string
}

type startMsg struct{}

// App is the interactive comparison shell. Every session call happens inside
// Update, so the bubbletea event loop is the session's single owner.
type App struct {
	ctx      context.Context
	session  *session.Session
	catalog  *catalog.Catalog
	exporter *export.Exporter
	logger   *slog.Logger
	config   Config

	fields [fieldCount]*dropdown
	focus  Field

	width  int
	height int

	message    string
	messageErr bool
}

func NewApp(ctx context.Context, s *session.Session, c *catalog.Catalog, e *export.Exporter, logger *slog.Logger, config Config) *App {
	a := &App{
		ctx:      ctx,
		session:  s,
		catalog:  c,
		exporter: e,
		logger:   logger,
		config:   config,
		fields: [fieldCount]*dropdown{
			FieldContext:         {label: "Context"},
			FieldPreviousVersion: {label: "Previous"},
			FieldNextVersion:     {label: "Next"},
			FieldPreviousVariant: {label: "Previous variant"},
			FieldNextVariant:     {label: "Next variant"},
		},
	}

	s.Subscribe(func(ev session.Event) {
		switch ev.Kind {
		case session.EventLoadFailed, session.EventRecomputeFailed:
			a.setMessage(ev.Err.Error(), true)
		}
	})

	return a
}

func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		return startMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case startMsg:
		a.Start()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	return a, nil
}

// Start fills the dropdowns from the catalog and loads the default pair.
func (a *App) Start() {
	a.fields[FieldContext].Reset(a.catalog.Contexts(a.ctx), 0)
	if !a.fields[FieldContext].Choose(a.config.Context) && a.config.Context != "" {
		a.logger.Warn("configured context not found", "context", a.config.Context)
	}

	contextName := a.fields[FieldContext].Selected()
	previous, next, ok := a.catalog.Defaults(a.ctx, contextName, a.config.Variant)
	if !ok {
		a.resetVersions()
		a.setMessage(fmt.Sprintf("no versions found in %q", contextName), true)
		return
	}

	a.resetVersions()
	a.fields[FieldPreviousVersion].Choose(previous.Version)
	a.fields[FieldNextVersion].Choose(next.Version)
	a.resetVariant(FieldPreviousVariant)
	a.resetVariant(FieldNextVariant)
	a.fields[FieldPreviousVariant].Choose(previous.Variant)
	a.fields[FieldNextVariant].Choose(next.Variant)

	a.load(session.SelectorPrevious)
	a.load(session.SelectorNext)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Quit):
		return tea.Quit

	case key.Matches(msg, Keys.ShowPrevious):
		a.dispatch(session.ActionShowPrevious)

	case key.Matches(msg, Keys.ShowNext):
		a.dispatch(session.ActionShowNext)

	case key.Matches(msg, Keys.ShowDifference):
		a.dispatch(session.ActionShowDifference)

	case key.Matches(msg, Keys.Recompute):
		a.dispatch(session.ActionRecompute)

	case key.Matches(msg, Keys.Save):
		a.save()

	case key.Matches(msg, Keys.NextField):
		a.focus = (a.focus + 1) % fieldCount

	case key.Matches(msg, Keys.PrevField):
		a.focus = (a.focus + fieldCount - 1) % fieldCount

	case key.Matches(msg, Keys.Up):
		a.cycle(-1)

	case key.Matches(msg, Keys.Down):
		a.cycle(1)
	}

	return nil
}

func (a *App) dispatch(action session.Action) {
	a.clearMessage()
	err := a.session.Dispatch(a.ctx, session.Command{Action: action})
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotReady):
		a.setMessage("load both images first", true)
	default:
		a.setMessage(err.Error(), true)
	}
}

// cycle changes the focused dropdown and cascades the change downwards:
// a context resets both versions, a version resets its variant, and every
// change reloads the affected slots.
func (a *App) cycle(delta int) {
	if !a.fields[a.focus].Cycle(delta) {
		return
	}
	a.clearMessage()

	switch a.focus {
	case FieldContext:
		a.resetVersions()
		a.resetVariant(FieldPreviousVariant)
		a.resetVariant(FieldNextVariant)
		a.load(session.SelectorPrevious)
		a.load(session.SelectorNext)
	case FieldPreviousVersion:
		a.resetVariant(FieldPreviousVariant)
		a.load(session.SelectorPrevious)
	case FieldNextVersion:
		a.resetVariant(FieldNextVariant)
		a.load(session.SelectorNext)
	case FieldPreviousVariant:
		a.load(session.SelectorPrevious)
	case FieldNextVariant:
		a.load(session.SelectorNext)
	}
}

func (a *App) resetVersions() {
	versions := a.catalog.Versions(a.ctx, a.fields[FieldContext].Selected())
	a.fields[FieldPreviousVersion].Reset(versions, 0)
	a.fields[FieldNextVersion].Reset(versions, 1)
}

func (a *App) resetVariant(field Field) {
	version := a.fields[FieldPreviousVersion]
	if field == FieldNextVariant {
		version = a.fields[FieldNextVersion]
	}
	a.fields[field].Reset(a.catalog.Variants(a.ctx, a.fields[FieldContext].Selected(), version.Selected()), 0)
}

func (a *App) selection(slot session.Selector) session.SelectionPath {
	p := session.SelectionPath{Context: a.fields[FieldContext].Selected()}
	if slot == session.SelectorPrevious {
		p.Version = a.fields[FieldPreviousVersion].Selected()
		p.Variant = a.fields[FieldPreviousVariant].Selected()
	} else {
		p.Version = a.fields[FieldNextVersion].Selected()
		p.Variant = a.fields[FieldNextVariant].Selected()
	}
	return p
}

func (a *App) load(slot session.Selector) {
	p := a.selection(slot)
	if p.Variant == "" {
		return
	}
	action := session.ActionLoadPrevious
	if slot == session.SelectorNext {
		action = session.ActionLoadNext
	}
	// Failures reach the status line through the session's events.
	_ = a.session.Dispatch(a.ctx, session.Command{Action: action, Selection: &p})
}

func (a *App) save() {
	selector, ok := a.session.State().Selector()
	if !ok {
		a.setMessage("nothing to save", true)
		return
	}

	url, err := a.exporter.Save(a.ctx, selector.String(), a.session.CurrentView(selector),
		a.session.Selection(session.SelectorPrevious).Key(), a.session.Selection(session.SelectorNext).Key())
	if err != nil {
		a.logger.Warn("failed to save view", "selector", selector.String(), "error", err)
		a.setMessage(err.Error(), true)
		return
	}

	a.logger.Info("saved view", "selector", selector.String(), "url", url)
	a.setMessage("saved "+url, false)
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message = msg
	a.messageErr = isErr
}

func (a *App) clearMessage() {
	a.message = ""
	a.messageErr = false
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Layer Comparator"))
	b.WriteString("\n")
	b.WriteString(a.renderFields())
	b.WriteString("\n")

	if preview := renderPreview(a.session.Displayed(), a.width-2, a.height-chrome); preview != "" {
		b.WriteString(preview)
		b.WriteString("\n")
	}

	b.WriteString(a.renderStatus())
	b.WriteString("\n")
	if a.message != "" {
		style := messageStyle
		if a.messageErr {
			style = errorStyle
		}
		b.WriteString(style.Render(a.message))
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpLine())

	return appStyle.Render(b.String())
}

func (a *App) renderFields() string {
	cells := make([]string, 0, fieldCount)
	for i, f := range a.fields {
		style := fieldStyle
		if Field(i) == a.focus {
			style = focusedFieldStyle
		}
		value := f.Selected()
		if value == "" {
			value = "-"
		}
		cells = append(cells, style.Render(labelStyle.Render(f.label+": ")+value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (a *App) renderStatus() string {
	parts := []string{
		a.session.State().String(),
		"policy " + a.session.Policy().String(),
	}

	if result := a.session.DiffResult(); result != nil {
		if a.session.DifferenceFresh() {
			parts = append(parts, freshStyle.Render("fresh"))
		} else {
			parts = append(parts, staleStyle.Render("stale"))
		}
		parts = append(parts,
			fmt.Sprintf("diff %.2f%%", result.DiffAmount*100),
			fmt.Sprintf("%d regions", len(result.Regions)),
		)
	}

	if w, h, ok := a.session.WindowFootprint(); ok {
		parts = append(parts, fmt.Sprintf("%dx%d", w, h))
	}

	return labelStyle.Render(strings.Join(parts, " | "))
}

func (a *App) renderHelpLine() string {
	var parts []string
	for _, k := range Keys.help() {
		h := k.Help()
		parts = append(parts, fmt.Sprintf("%s %s", helpKeyStyle.Render(h.Key), helpDescStyle.Render(h.Desc)))
	}
	return strings.Join(parts, helpSeparator.String())
}
