package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/catalog/internal/productapi"
)

// View renders the catalog screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderApplicationContainer(m.buildContent(), m.helpView(), m.api, m.width, m.height)
}

func (m Model) buildContent() string {
	var b strings.Builder

	if m.session.Err != nil {
		b.WriteString(m.renderError())
		b.WriteString("\n")
	}

	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderList())

	return b.String()
}

// renderError shows the visible error with a troubleshooting hint
func (m Model) renderError() string {
	err := m.session.Err
	text := "✗ " + productapi.GetShortErrorMessage(err)
	if field := productapi.ValidationField(err); field != "" {
		text += fmt.Sprintf(" (%s)", field)
	}
	if hint := productapi.GetTroubleshootingHint(err); hint != "" {
		text += "\n" + HintStyle.Render(hint)
	}
	text += "\n" + SubtitleStyle.Render("esc to dismiss")

	return ErrorBoxStyle.Width(m.contentWidth()).Render(text)
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(m.renderInput("Search", m.search, m.focus == FocusSearch))
	b.WriteString("\n")

	buttons := make([]string, len(searchButtonLabels))
	for i, label := range searchButtonLabels {
		buttons[i] = RenderButton(label, m.focus == FocusSearchButtons && i == m.searchCursor)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, buttons...)

	var status []string
	if m.Busy() {
		status = append(status, m.spinner.View()+" Loading...")
	}
	if m.live {
		status = append(status, LiveStyle.Render("● live"))
	}
	if len(status) > 0 {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, "  ", strings.Join(status, "  "))
	}
	b.WriteString(row)

	return b.String()
}

func (m Model) renderForm() string {
	form := m.session.Form

	var b strings.Builder
	b.WriteString(RenderTitle(form.Title()))
	if id, ok := form.Mode.ProductID(); ok {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  editing #%d", id)))
	}
	b.WriteString("\n")

	b.WriteString(m.renderInput("Name", m.name, m.focus == FocusName))
	b.WriteString("\n")
	b.WriteString(m.renderInput("Description", m.description, m.focus == FocusDescription))
	b.WriteString("\n")
	b.WriteString(m.renderInput("Price", m.price, m.focus == FocusPrice))
	b.WriteString("\n")

	// Rebuilt from the form mode on every render
	actions := m.session.Actions()
	buttons := make([]string, len(actions))
	for i, action := range actions {
		buttons[i] = RenderButton(action.Label(), m.focus == FocusFormButtons && i == m.actionCursor)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, buttons...))

	return SectionStyle.Width(m.contentWidth()).Render(b.String())
}

func (m Model) renderList() string {
	var b strings.Builder

	heading := "Products"
	if !m.session.Active.IsAll() {
		heading = fmt.Sprintf("Products matching %s", m.session.Active)
	}
	b.WriteString(RenderTitle(heading))
	b.WriteString("\n")

	if !m.session.Loaded && m.session.Err == nil {
		b.WriteString(PlaceholderStyle.Render("Loading products..."))
		return b.String()
	}

	focused := m.focus == FocusList
	for i, row := range m.session.Listing.Rows() {
		if row.Placeholder {
			b.WriteString(PlaceholderStyle.Render(row.Label()))
			b.WriteString("\n")
			continue
		}

		selected := focused && i == m.rowCursor
		line := RenderMenuItem(row.Product.String(), selected)
		if selected {
			line += SubtitleStyle.Render("   [e]dit  [d]elete")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderInput(label string, input textinput.Model, focused bool) string {
	style := LabelStyle
	if focused {
		style = FocusedLabelStyle
	}
	return style.Render(label) + input.View()
}

func (m Model) helpView() string {
	return m.help.View(m.helpKeys())
}

// helpKeys picks the bindings for the focused area
func (m Model) helpKeys() help.KeyMap {
	switch m.focus {
	case FocusSearch:
		return inputKeyMap{keys: m.keys, enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search"))}
	case FocusName, FocusDescription, FocusPrice:
		return inputKeyMap{keys: m.keys, enter: m.keys.Submit}
	case FocusList:
		return listKeyMap{keys: m.keys}
	default:
		return buttonKeyMap{keys: m.keys}
	}
}

func (m Model) contentWidth() int {
	w := m.width - 8
	if w < MinTerminalWidth-8 {
		w = MinTerminalWidth - 8
	}
	return w
}
