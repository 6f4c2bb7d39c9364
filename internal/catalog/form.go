package catalog

import (
	"fmt"

	"github.com/muurk/catalog/internal/productapi"
)

// FormMode is either Add or Edit(productID). The zero value is Add.
type FormMode struct {
	editing   bool
	productID int64
}

// AddMode returns the Add mode
func AddMode() FormMode {
	return FormMode{}
}

// EditMode returns the mode for editing the product with the given id
func EditMode(id int64) FormMode {
	return FormMode{editing: true, productID: id}
}

// IsEdit reports whether the form edits an existing product
func (m FormMode) IsEdit() bool {
	return m.editing
}

// ProductID returns the id being edited; ok is false in Add mode
func (m FormMode) ProductID() (id int64, ok bool) {
	return m.productID, m.editing
}

// String implements fmt.Stringer
func (m FormMode) String() string {
	if m.editing {
		return fmt.Sprintf("Edit(%d)", m.productID)
	}
	return "Add"
}

// Action is a form button
type Action string

const (
	ActionAdd    Action = "add"
	ActionSave   Action = "save"
	ActionCancel Action = "cancel"
)

// Label returns the button text
func (a Action) Label() string {
	switch a {
	case ActionAdd:
		return "Add Product"
	case ActionSave:
		return "Save"
	case ActionCancel:
		return "Cancel"
	default:
		return string(a)
	}
}

// Actions returns the form buttons for a mode: Add has [add], Edit has
// [save, cancel]. A fresh slice is returned on every call.
func Actions(mode FormMode) []Action {
	if mode.IsEdit() {
		return []Action{ActionSave, ActionCancel}
	}
	return []Action{ActionAdd}
}

// Fields holds the raw text of the three form inputs
type Fields struct {
	Name        string
	Description string
	Price       string
}

// FieldsOf fills the inputs from a loaded product
func FieldsOf(p productapi.Product) Fields {
	return Fields{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
	}
}

// IsEmpty reports whether all inputs are blank
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// Draft validates the inputs and converts them to the request body
func (f Fields) Draft() (productapi.Draft, error) {
	return productapi.ParseDraft(f.Name, f.Description, f.Price)
}

// Form is the product form: its mode and the text of its inputs.
//
// Form is a value. BeginEdit, Cancel and Reset return a new Form with a
// bumped revision; typing (WithFields) keeps the revision so in-flight
// requests can tell whether the form transitioned since they were issued.
type Form struct {
	Mode   FormMode
	Fields Fields
	rev    uint64
}

// NewForm returns an empty form in Add mode
func NewForm() Form {
	return Form{Mode: AddMode()}
}

// BeginEdit switches to Edit(p.ID) and loads the product snapshot into the inputs
func (f Form) BeginEdit(p productapi.Product) Form {
	return Form{
		Mode:   EditMode(p.ID),
		Fields: FieldsOf(p),
		rev:    f.rev + 1,
	}
}

// Cancel abandons an edit and returns to an empty Add form
func (f Form) Cancel() Form {
	return f.Reset()
}

// Reset returns to an empty Add form
func (f Form) Reset() Form {
	return Form{Mode: AddMode(), rev: f.rev + 1}
}

// WithFields replaces the input text without changing the mode
func (f Form) WithFields(fields Fields) Form {
	f.Fields = fields
	return f
}

// Title is the form heading for the current mode
func (f Form) Title() string {
	if f.Mode.IsEdit() {
		return "Update Product"
	}
	return "Add Product"
}

// Actions returns the buttons for the current mode
func (f Form) Actions() []Action {
	return Actions(f.Mode)
}

// Revision counts mode transitions
func (f Form) Revision() uint64 {
	return f.rev
}
