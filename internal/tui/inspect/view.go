package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
)

func (m Model) View() string {
	switch m.viewMode {
	case ViewDetail:
		return m.renderDetail()
	case ViewHelp:
		return m.renderHelp()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("flowc inspect — %s", m.workflow.Name)))
	b.WriteString("\n")

	if len(m.order) == 0 {
		b.WriteString(itemStyle.Render("(no instances)"))
	}
	for i, id := range m.order {
		nt, _ := m.workflow.InstanceType(id)
		typeName := "?"
		if nt != nil {
			typeName = nt.Name
		}
		line := fmt.Sprintf("%s (%s)", id, typeName)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render("↑/↓: navigate  •  enter: details  •  ?: help  •  q: quit"))
	return b.String()
}

// renderDetail wraps the selected instance's wiring in the scrollable
// viewport, so a node with many predecessors/successors never clips.
func (m Model) renderDetail() string {
	m.content.SetContent(m.renderDetailBody())
	return m.content.View() + "\n" + footerStyle.Render("↑/↓: scroll  •  esc: back  •  q: quit")
}

// renderDetailBody renders the selected instance's wiring without the
// footer, so it can be measured and scrolled by the viewport.
func (m Model) renderDetailBody() string {
	id, ok := m.selected()
	if !ok {
		return "no instance selected"
	}
	nt, _ := m.workflow.InstanceType(id)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Instance %s", id)))
	b.WriteString("\n")
	if nt != nil {
		b.WriteString(detailRow("Type", nt.Name))
		b.WriteString(detailRow("Function", nt.FunctionName))
	}
	b.WriteString(detailRow("Scope kind", scopeKindLabel(m.analysis.ScopeKind[id])))
	b.WriteString(detailRow("Branching", fmt.Sprintf("%v", m.analysis.Branching[id])))

	b.WriteString("\nInbound:\n")
	for _, pred := range m.analysis.Predecessors(id) {
		b.WriteString(itemStyle.Render(pred))
		b.WriteString("\n")
	}
	b.WriteString("\nOutbound:\n")
	for _, succ := range m.analysis.Successors(id) {
		b.WriteString(itemStyle.Render(succ))
		b.WriteString("\n")
	}
	return b.String()
}

func detailRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, detailLabelStyle.Render(label+":"), value) + "\n"
}

func scopeKindLabel(k flowanalyzer.ScopeKind) string {
	switch k {
	case flowanalyzer.NodeLevelScoped:
		return "node-level"
	case flowanalyzer.PerPortScoped:
		return "per-port"
	default:
		return "none"
	}
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Help"))
	b.WriteString("\n")
	lines := []string{
		"↑/↓, j/k   navigate the instance list",
		"enter      show an instance's wiring",
		"esc        back to the list",
		"?          toggle this help",
		"q, ctrl+c  quit",
	}
	for _, l := range lines {
		b.WriteString(itemStyle.Render(l))
		b.WriteString("\n")
	}
	return b.String()
}
