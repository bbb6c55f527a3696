package parser

import (
	"regexp"
	"strings"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

var checklistRegex = regexp.MustCompile(`^(\s*)([-*])(\s+)\[( |x|X)\](\s+)(.*)$`)

// ParseLine matches the checklist grammar. ok is false for ordinary lines.
func ParseLine(line string) (shape model.LineShape, body string, ok bool) {
	m := checklistRegex.FindStringSubmatch(line)
	if m == nil {
		return model.LineShape{}, "", false
	}
	shape = model.LineShape{
		Indent:  m[1],
		Bullet:  m[2],
		Gap:     m[3],
		Box:     m[4],
		Spacing: m[5],
		Raw:     line,
	}
	return shape, strings.TrimSpace(m[6]), true
}

// FormatLine rebuilds a checklist line from its shape, a checkbox glyph and a body.
func FormatLine(shape model.LineShape, box, body string) string {
	spacing := shape.Spacing
	if spacing == "" {
		spacing = " "
	}
	gap := shape.Gap
	if gap == "" {
		gap = " "
	}
	return shape.Indent + shape.Bullet + gap + "[" + box + "]" + spacing + body
}

// SplitLines splits on \n or \r\n.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Scan extracts one task per checklist line, in document order.
func Scan(doc model.Document) []model.Task {
	var tasks []model.Task
	for i, line := range doc.Lines {
		shape, body, ok := ParseLine(line)
		if !ok {
			continue
		}
		tasks = append(tasks, NewTask(doc.Ref.ID, i+1, shape, Decode(body)))
	}
	return tasks
}

// NewTask applies the status and priority defaults to decoded annotations.
func NewTask(documentID string, lineNumber int, shape model.LineShape, a Annotations) model.Task {
	checked := strings.EqualFold(shape.Box, "x")

	status := a.Status
	if status == "" {
		status = model.StatusOpen
		if checked {
			status = model.StatusComplete
		}
	}
	priority := a.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	people := a.People
	if people == nil {
		people = []string{}
	}

	return model.Task{
		DocumentID: documentID,
		LineNumber: lineNumber,
		Checked:    checked,
		Text:       a.Text,
		Status:     status,
		Priority:   priority,
		Created:    a.Created,
		Due:        a.Due,
		Closed:     a.Closed,
		Project:    a.Project,
		People:     people,
		Extra:      a.Extra,
		Line:       shape,
	}
}
