package mutate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/parser"
)

var (
	ErrLineMismatch = errors.New("line does not match checklist syntax")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// ApplyFieldChange returns the new text of line lineNumber (1-based) after setting
// one field. Only that line is considered; the slice is not modified.
func ApplyFieldChange(lines []string, lineNumber int, field model.Field, value string, today time.Time) (string, error) {
	if lineNumber < 1 || lineNumber > len(lines) {
		return "", fmt.Errorf("%w: line %d out of range", ErrLineMismatch, lineNumber)
	}
	shape, body, ok := parser.ParseLine(lines[lineNumber-1])
	if !ok {
		return "", fmt.Errorf("%w: line %d", ErrLineMismatch, lineNumber)
	}

	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, "\r\n") {
		return "", fmt.Errorf("%w: multi-line value", ErrInvalidValue)
	}
	if field == model.FieldText && !parser.ValidText(value) {
		return "", fmt.Errorf("%w: text %q holds an annotation token", ErrInvalidValue, value)
	}
	if field != model.FieldText && !parser.ValidValue(value) {
		return "", fmt.Errorf("%w: %q cannot be stored in a token", ErrInvalidValue, value)
	}

	a := parser.Decode(body)
	if err := setField(&a, field, value); err != nil {
		return "", err
	}

	status := a.Status
	if status == "" {
		status = model.StatusOpen
		if strings.EqualFold(shape.Box, "x") {
			status = model.StatusComplete
		}
	}
	if field == model.FieldStatus && status.IsClosed() && a.Closed == "" {
		a.Closed = model.FormatDate(today)
	}

	box := " "
	if status.IsClosed() {
		box = "x"
	}
	return parser.FormatLine(shape, box, parser.Encode(a)), nil
}

// RewriteDocument applies ApplyFieldChange to a whole document, keeping line
// endings and the line count intact.
func RewriteDocument(content string, lineNumber int, field model.Field, value string, today time.Time) (string, error) {
	newLine, err := ApplyFieldChange(parser.SplitLines(content), lineNumber, field, value, today)
	if err != nil {
		return "", err
	}
	lines := strings.Split(content, "\n")
	if strings.HasSuffix(lines[lineNumber-1], "\r") {
		newLine += "\r"
	}
	lines[lineNumber-1] = newLine
	return strings.Join(lines, "\n"), nil
}

func setField(a *parser.Annotations, field model.Field, value string) error {
	switch field {
	case model.FieldText:
		a.Text = strings.Join(strings.Fields(value), " ")
	case model.FieldStatus:
		s, err := normalizeStatus(value)
		if err != nil {
			return err
		}
		a.Status = s
	case model.FieldPriority:
		p, err := normalizePriority(value)
		if err != nil {
			return err
		}
		a.Priority = p
	case model.FieldCreated:
		a.Created = value
	case model.FieldDue:
		a.Due = value
	case model.FieldClosed:
		a.Closed = value
	case model.FieldProject:
		a.Project = value
	case model.FieldPeople:
		a.People = splitPeople(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func normalizeStatus(v string) (model.Status, error) {
	if v == "" {
		return "", nil
	}
	if s, ok := model.ParseStatus(v); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: status %q", ErrInvalidValue, v)
}

func normalizePriority(v string) (model.Priority, error) {
	if v == "" {
		return "", nil
	}
	if p, ok := model.ParsePriority(v); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrInvalidValue, v)
}

func splitPeople(v string) []string {
	people := []string{}
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			people = append(people, p)
		}
	}
	return people
}
