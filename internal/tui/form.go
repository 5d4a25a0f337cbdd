package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// choice is one option of a select field.
type choice struct {
	value string
	label string
}

// formField is either a text input or, when choices is set, a select.
type formField struct {
	label   string
	input   textinput.Model
	choices []choice
	sel     int
}

func (f *formField) value() string {
	if f.choices != nil {
		return f.choices[f.sel].value
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *formField) view(focused bool) string {
	label := formLabelStyle.Render(f.label)
	if focused {
		label = formFocusStyle.Render(f.label)
	}
	if f.choices == nil {
		return label + " " + f.input.View()
	}
	opt := f.choices[f.sel].label
	if focused {
		return label + " ‹ " + formFocusStyle.Render(opt) + " ›"
	}
	return label + "   " + opt + "  "
}

// form is a vertical list of fields with one focused field.
type form struct {
	fields []*formField
	focus  int
}

func textField(label, placeholder, value string) *formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.Width = 24
	in.SetValue(value)
	return &formField{label: label, input: in}
}

func choiceField(label string, choices []choice) *formField {
	return &formField{label: label, choices: choices}
}

func newForm(fields ...*formField) *form {
	f := &form{fields: fields}
	f.setFocus(0)
	return f
}

// Value returns the trimmed value of the i-th field.
func (f *form) Value(i int) string { return f.fields[i].value() }

func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j, fld := range f.fields {
		if fld.choices != nil {
			continue
		}
		if j == f.focus {
			cmd = fld.input.Focus()
		} else {
			fld.input.Blur()
		}
	}
	return cmd
}

// update handles a key press. submit is true when the user pressed enter.
func (f *form) update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	cur := f.fields[f.focus]
	switch msg.String() {
	case "enter":
		return true, nil
	case "tab", "down":
		return false, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return false, f.setFocus(f.focus - 1)
	case "left", "right":
		if cur.choices != nil {
			d := 1
			if msg.String() == "left" {
				d = -1
			}
			n := len(cur.choices)
			cur.sel = ((cur.sel+d)%n + n) % n
			return false, nil
		}
	}
	if cur.choices != nil {
		return false, nil
	}
	cur.input, cmd = cur.input.Update(msg)
	return false, cmd
}

func (f *form) view() string {
	lines := make([]string, 0, len(f.fields))
	for i, fld := range f.fields {
		lines = append(lines, "  "+fld.view(i == f.focus))
	}
	return strings.Join(lines, "\n")
}

// height is the number of lines view renders.
func (f *form) height() int { return len(f.fields) }
