package parser

import (
	"regexp"
	"strings"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

var (
	tokenRegex = regexp.MustCompile(`@([A-Za-z0-9_]+)\(([^)]*)\)`)
	// danglingRegex matches an unterminated token running to the end of the text.
	danglingRegex = regexp.MustCompile(`@[A-Za-z0-9_]+\([^)]*$`)
)

// Annotations is the decoded form of a checklist body. Empty strings mean absent.
type Annotations struct {
	Text     string
	Created  string
	Due      string
	Closed   string
	Status   model.Status
	Priority model.Priority
	Project  string
	People   []string
	Extra    []model.Token
}

// Decode pulls every @key(value) token out of body. Single-valued keys keep the
// last occurrence, person tokens accumulate, unknown keys land in Extra.
func Decode(body string) Annotations {
	a := Annotations{People: []string{}}

	for _, m := range tokenRegex.FindAllStringSubmatch(body, -1) {
		key, value := m[1], m[2]
		switch key {
		case "created":
			a.Created = value
		case "due":
			a.Due = value
		case "closed":
			a.Closed = value
		case "status":
			a.Status = model.Status(value)
		case "priority":
			a.Priority = model.Priority(value)
		case "project":
			a.Project = value
		case "person":
			a.People = append(a.People, value)
		default:
			a.Extra = append(a.Extra, model.Token{Key: key, Value: value})
		}
	}

	// Tokens are replaced by a space so the removal can never splice a new token together.
	a.Text = strings.Join(strings.Fields(tokenRegex.ReplaceAllString(body, " ")), " ")
	return a
}

// Encode renders a in canonical order: text, created, due, closed, status,
// priority, project, people, then unknown tokens as they were read. When the
// text ends in an unterminated token the tokens are written before the text,
// otherwise its open paren would swallow them on the next decode.
func Encode(a Annotations) string {
	parts := make([]string, 0, 7+len(a.People)+len(a.Extra))
	textLast := danglingRegex.MatchString(a.Text)
	if a.Text != "" && !textLast {
		parts = append(parts, a.Text)
	}

	single := []struct {
		key   string
		value string
	}{
		{"created", a.Created},
		{"due", a.Due},
		{"closed", a.Closed},
		{"status", string(a.Status)},
		{"priority", string(a.Priority)},
		{"project", a.Project},
	}
	for _, f := range single {
		if f.value != "" {
			parts = append(parts, token(f.key, f.value))
		}
	}

	for _, p := range a.People {
		parts = append(parts, token("person", p))
	}
	for _, t := range a.Extra {
		parts = append(parts, token(t.Key, t.Value))
	}
	if textLast {
		parts = append(parts, a.Text)
	}

	return strings.Join(parts, " ")
}

// ValidValue reports whether v can be stored inside a token.
func ValidValue(v string) bool {
	return !strings.ContainsAny(v, ")\r\n")
}

// ValidText reports whether v can be stored as task text: it must hold no
// token and no unterminated token.
func ValidText(v string) bool {
	return !strings.ContainsAny(v, "\r\n") && !tokenRegex.MatchString(v) && !danglingRegex.MatchString(v)
}

func token(key, value string) string {
	return "@" + key + "(" + value + ")"
}
