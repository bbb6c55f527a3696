package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

const EmptyMessage = "No tasks match the current filters."

type Options struct {
	ShowFilePath bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Faint(true)
	metaStyle   = lipgloss.NewStyle().Faint(true)

	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusOpen:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.StatusComplete:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.StatusCanceled:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
	}
	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// Tasks writes the header, then one entry per task: badges and text on the
// first row, meta data on the second.
func Tasks(w io.Writer, tasks []model.Task, opts Options) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Task Control Hub"))
	b.WriteString(countStyle.Render(Count(len(tasks))))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(EmptyMessage)
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, t := range tasks {
		fmt.Fprintf(&b, "%s %s %s\n", statusBadge(t.Status), priorityBadge(t.Priority), t.Text)
		if meta := MetaLine(t, opts); meta != "" {
			b.WriteString("    ")
			b.WriteString(metaStyle.Render(meta))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Count renders " (n task)" or " (n tasks)".
func Count(n int) string {
	if n == 1 {
		return " (1 task)"
	}
	return fmt.Sprintf(" (%d tasks)", n)
}

// MetaLine joins due, created, project, people and location with bullets.
func MetaLine(t model.Task, opts Options) string {
	var parts []string
	if t.Due != "" {
		parts = append(parts, "Due "+t.Due)
	}
	if t.Created != "" {
		parts = append(parts, "Created "+t.Created)
	}
	if t.Project != "" {
		parts = append(parts, "Project: "+t.Project)
	}
	if len(t.People) > 0 {
		parts = append(parts, "People: "+strings.Join(t.People, ", "))
	}
	if opts.ShowFilePath {
		parts = append(parts, fmt.Sprintf("%s:%d", ShortPath(t.DocumentID), t.LineNumber))
	}
	return strings.Join(parts, " • ")
}

// ShortPath keeps the last two segments of a slash-separated path.
func ShortPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

func statusBadge(s model.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render("[" + string(s) + "]")
}

func priorityBadge(p model.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render("[" + string(p) + "]")
}
