package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/muurk/catalog/internal/productapi"
)

func TestActions(t *testing.T) {
	tests := []struct {
		mode FormMode
		want []Action
	}{
		{AddMode(), []Action{ActionAdd}},
		{FormMode{}, []Action{ActionAdd}},
		{EditMode(7), []Action{ActionSave, ActionCancel}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Actions(tt.mode)); diff != "" {
			t.Errorf("Actions(%v) mismatch (-want +got):\n%s", tt.mode, diff)
		}
	}
}

func TestActions_FreshSlice(t *testing.T) {
	a := Actions(AddMode())
	a[0] = ActionCancel
	if Actions(AddMode())[0] != ActionAdd {
		t.Error("Actions should not share its backing array between calls")
	}
}

func TestFormMode(t *testing.T) {
	if AddMode().IsEdit() {
		t.Error("AddMode should not be an edit")
	}
	if _, ok := AddMode().ProductID(); ok {
		t.Error("AddMode should have no product id")
	}

	id, ok := EditMode(42).ProductID()
	if !ok || id != 42 {
		t.Errorf("EditMode(42).ProductID() = %d, %v", id, ok)
	}
	if EditMode(42).String() != "Edit(42)" || AddMode().String() != "Add" {
		t.Errorf("String() = %q / %q", EditMode(42).String(), AddMode().String())
	}
}

func TestForm_AddEditCancel(t *testing.T) {
	lamp := productapi.Product{ID: 3, Name: "Lamp", Description: "warm", Price: decimal.RequireFromString("19.90")}

	form := NewForm()
	if form.Title() != "Add Product" {
		t.Errorf("Title() = %q, want Add Product", form.Title())
	}

	initialFields := form.Fields
	initialActions := form.Actions()

	editing := form.BeginEdit(lamp)
	if editing.Mode != EditMode(3) {
		t.Errorf("Mode = %v, want Edit(3)", editing.Mode)
	}
	if editing.Title() != "Update Product" {
		t.Errorf("Title() = %q, want Update Product", editing.Title())
	}
	want := Fields{Name: "Lamp", Description: "warm", Price: "19.9"}
	if diff := cmp.Diff(want, editing.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Action{ActionSave, ActionCancel}, editing.Actions()); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}

	canceled := editing.WithFields(Fields{Name: "typed"}).Cancel()
	if canceled.Mode != AddMode() {
		t.Errorf("Mode after cancel = %v, want Add", canceled.Mode)
	}
	if diff := cmp.Diff(initialFields, canceled.Fields); diff != "" {
		t.Errorf("fields after cancel mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(initialActions, canceled.Actions()); diff != "" {
		t.Errorf("actions after cancel mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_Revision(t *testing.T) {
	form := NewForm()
	rev := form.Revision()

	typed := form.WithFields(Fields{Name: "x"})
	if typed.Revision() != rev {
		t.Error("typing should not bump the revision")
	}

	edit := typed.BeginEdit(product(1, "Mug", "3"))
	if edit.Revision() != rev+1 {
		t.Errorf("BeginEdit revision = %d, want %d", edit.Revision(), rev+1)
	}
	if edit.Reset().Revision() != rev+2 {
		t.Errorf("Reset revision = %d, want %d", edit.Reset().Revision(), rev+2)
	}
}

func TestFieldsOf_NullDescription(t *testing.T) {
	// A product decoded from {"description": null} has Description ""
	f := FieldsOf(productapi.Product{ID: 1, Name: "Mug", Price: decimal.NewFromInt(3)})
	if f.Description != "" {
		t.Errorf("Description = %q, want empty", f.Description)
	}
}

func TestFields_Draft_RoundTrip(t *testing.T) {
	loaded := productapi.Product{ID: 5, Name: "Desk", Description: "oak", Price: decimal.RequireFromString("249.99")}

	draft, err := FieldsOf(loaded).Draft()
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if !draft.Equal(loaded.Draft()) {
		t.Errorf("Draft() = %+v, want %+v", draft, loaded.Draft())
	}
}

func TestAction_Label(t *testing.T) {
	if ActionAdd.Label() != "Add Product" || ActionSave.Label() != "Save" || ActionCancel.Label() != "Cancel" {
		t.Error("unexpected button labels")
	}
}
