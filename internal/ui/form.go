package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/ui/components"
)

// --- Form Fields ---

const (
	formType = iota
	formOwner
	formDefault
	formLink
	formFields
	formFocusCount
)

var formLabels = [...]string{"Type", "Owner", "Default", "Link", "Fields"}

// FormModel edits one record. Fields are entered as key=value lines and keep
// the order they are written in.
type FormModel struct {
	editing   bool
	id        string
	temporary bool

	inputs [formFields]textinput.Model
	fields textarea.Model
	focus  int
	err    string
}

func newFormInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	return ti
}

// NewAddForm builds an empty form for a new record.
func NewAddForm() FormModel {
	f := FormModel{}
	f.inputs[formType] = newFormInput("Passport")
	f.inputs[formOwner] = newFormInput("alice")
	f.inputs[formDefault] = newFormInput("number")
	f.inputs[formLink] = newFormInput("https://")

	ta := textarea.New()
	ta.Placeholder = "number=P1234567\ncountry=USA"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(6)
	f.fields = ta

	f.inputs[formType].Focus()
	return f
}

// NewEditForm builds a form prefilled from rec.
func NewEditForm(rec record.Record) FormModel {
	f := NewAddForm()
	f.editing = true
	f.id = rec.ID
	f.temporary = rec.IsTemporary
	f.inputs[formType].SetValue(rec.Type)
	f.inputs[formOwner].SetValue(rec.Owner)
	f.inputs[formDefault].SetValue(rec.DefaultField)
	f.inputs[formLink].SetValue(rec.FileLink)
	f.fields.SetValue(strings.Join(rec.Fields.Pairs(), "\n"))
	return f
}

// Editing reports whether the form edits an existing record.
func (f FormModel) Editing() bool {
	return f.editing
}

func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case isKey(key, "tab"):
			return f, f.setFocus((f.focus + 1) % formFocusCount)
		case isKey(key, "shift+tab"):
			return f, f.setFocus((f.focus + formFocusCount - 1) % formFocusCount)
		case isEnter(key) && f.focus != formFields:
			return f, f.setFocus(f.focus + 1)
		}
		f.err = ""
	}

	var cmd tea.Cmd
	if f.focus == formFields {
		f.fields, cmd = f.fields.Update(msg)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd
}

func (f *FormModel) setFocus(next int) tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.fields.Blur()
	f.focus = next
	if next == formFields {
		return f.fields.Focus()
	}
	return f.inputs[next].Focus()
}

// Record validates the form and builds the record it describes.
func (f FormModel) Record() (record.Record, error) {
	typ := strings.TrimSpace(f.inputs[formType].Value())
	if typ == "" {
		return record.Record{}, fmt.Errorf("type is required")
	}
	fields, err := record.ParseFieldPairs(strings.Split(f.fields.Value(), "\n"))
	if err != nil {
		return record.Record{}, err
	}
	def := strings.TrimSpace(f.inputs[formDefault].Value())
	if def != "" {
		if _, ok := fields.Get(def); !ok {
			return record.Record{}, fmt.Errorf("default field %q is not one of the fields", def)
		}
	}
	link := strings.TrimSpace(f.inputs[formLink].Value())
	if link != "" {
		if err := platform.ValidateLink(link); err != nil {
			return record.Record{}, err
		}
	}

	rec := record.New(typ)
	if f.editing {
		rec.ID = f.id
	}
	rec.Owner = strings.TrimSpace(f.inputs[formOwner].Value())
	rec.DefaultField = def
	rec.Fields = fields
	rec.FileLink = link
	rec.IsTemporary = f.temporary
	return rec, nil
}

// WithError returns the form showing err under the inputs.
func (f FormModel) WithError(err error) FormModel {
	f.err = err.Error()
	return f
}

func (f FormModel) View(width int) string {
	contentWidth := components.BoxContentWidth(width)
	inputWidth := contentWidth - 10
	if inputWidth < 10 {
		inputWidth = 10
	}

	var b strings.Builder
	for i := range f.inputs {
		f.inputs[i].Width = inputWidth
		b.WriteString(f.label(i))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(f.label(formFields))
	b.WriteString(MutedStyle.Render("key=value, one per line"))
	b.WriteString("\n")
	f.fields.SetWidth(contentWidth)
	b.WriteString(f.fields.View())
	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(components.ErrorBox("", f.err, width-4))
	}

	title := "Add Document"
	if f.editing {
		title = "Edit Document"
	}
	return components.ActiveTitledBox(title, b.String(), width)
}

func (f FormModel) label(i int) string {
	text := fmt.Sprintf("%-9s", formLabels[i])
	if i == f.focus {
		return FormLabelActiveStyle.Render("› " + text)
	}
	return FormLabelStyle.Render("  " + text)
}
