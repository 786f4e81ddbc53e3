package openapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func loadDocument(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.New(openapi.WithValidation(true)).LoadFile(context.Background(), "testdata/petstore.yaml")
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

func importApplicant(t *testing.T) schema.Definition {
	t.Helper()
	def, err := loadDocument(t).Definition("createApplicant")
	if err != nil {
		t.Fatalf("import createApplicant: %v", err)
	}
	return def
}

func fieldByKey(fields []model.Field, key string) model.Field {
	for _, f := range fields {
		if f.Key == key {
			return f
		}
	}
	return model.Field{}
}

func TestOperationsSortedByID(t *testing.T) {
	t.Parallel()

	var got []string
	for _, op := range loadDocument(t).Operations() {
		got = append(got, op.Method+" "+op.ID)
		if op.ID == "listApplicants" && op.HasBody {
			t.Fatalf("GET operation should have no body")
		}
	}
	want := []string{"POST createApplicant", "GET listApplicants", "PUT put:/applicants/{id}/notes"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionFieldMapping(t *testing.T) {
	t.Parallel()

	def := importApplicant(t)
	if def.ID != "createApplicant" || def.Title != "Create applicant" {
		t.Fatalf("unexpected definition header %q %q", def.ID, def.Title)
	}

	type shape struct {
		Key   string
		Label string
		Type  model.FieldType
	}
	var got []shape
	for _, f := range def.Fields {
		got = append(got, shape{Key: f.Key, Label: f.Label, Type: f.Type})
	}
	want := []shape{
		{Key: "age", Label: "Age", Type: model.FieldTypeText},
		{Key: "education", Label: "Education"},
		{Key: "email", Label: "Email", Type: model.FieldTypeText},
		{Key: "full_name", Label: "Full name", Type: model.FieldTypeText},
		{Key: "interests", Label: "Interests", Type: model.FieldTypeCheckboxGroup},
		{Key: "password", Label: "Password", Type: model.FieldTypeText},
		{Key: "plan", Label: "Plan", Type: model.FieldTypeSelect},
		{Key: "subscribe", Label: "Subscribe", Type: model.FieldTypeSwitch},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	education := fieldByKey(def.Fields, "education")
	if !education.Repeatable || *education.Min != 1 || *education.Max != 3 {
		t.Fatalf("education should be a bounded repeatable group: %+v", education)
	}
	var nested []string
	for _, f := range education.Fields {
		nested = append(nested, f.Key+"="+f.Label)
	}
	if diff := cmp.Diff([]string{"graduatedAt=Graduated at", "school=School"}, nested); diff != "" {
		t.Fatalf("nested fields mismatch (-want +got):\n%s", diff)
	}

	if got := fieldByKey(def.Fields, "password").Hints["secret"]; got != "true" {
		t.Fatalf("password should be marked secret, got %q", got)
	}
	if got := fieldByKey(def.Fields, "full_name").Hints["help"]; got != "Legal name" {
		t.Fatalf("description should become help text, got %q", got)
	}

	wantInitial := map[string]any{"plan": "free", "subscribe": false}
	if diff := cmp.Diff(wantInitial, def.Initial); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestImportedRulesValidate(t *testing.T) {
	t.Parallel()

	def := importApplicant(t)
	errs := validation.Validate(def.Fields, state.New(def.Initial))
	if diff := cmp.Diff([]string{"education", "email", "full_name"}, errs.Paths()); diff != "" {
		t.Fatalf("error paths mismatch (-want +got):\n%s", diff)
	}

	filled := state.New(map[string]any{
		"full_name": "Ada Lovelace",
		"email":     "ada@example.com",
		"age":       "17",
		"plan":      "gold",
		"interests": []any{"go", "rust", "zig"},
		"education": []any{map[string]any{"school": "", "graduatedAt": "1833"}},
	})
	errs = validation.Validate(def.Fields, filled)
	want := []string{"age", "education.0.school", "interests", "plan"}
	if diff := cmp.Diff(want, errs.Paths()); diff != "" {
		t.Fatalf("error paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFormEncodedBodyAndLongText(t *testing.T) {
	t.Parallel()

	def, err := loadDocument(t).Definition("put:/applicants/{id}/notes")
	if err != nil {
		t.Fatalf("import notes: %v", err)
	}
	if len(def.Fields) != 1 || def.Fields[0].Type != model.FieldTypeTextarea {
		t.Fatalf("expected a single textarea, got %+v", def.Fields)
	}
}

func TestDefinitionErrors(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t)
	if _, err := doc.Definition("listApplicants"); !errors.Is(err, openapi.ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}
	if _, err := doc.Definition("missing"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestLoadRejectsEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	importer := openapi.New()
	if _, err := importer.Load(context.Background(), nil, "empty.yaml"); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := importer.Load(context.Background(), []byte("openapi: [3"), "broken.yaml"); err == nil {
		t.Fatalf("expected parse error")
	}
}

const undeclaredPathParam = `openapi: 3.0.3
info:
  title: Notes
  version: 1.0.0
paths:
  /notes/{id}:
    put:
      operationId: saveNote
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                body:
                  type: string
      responses:
        "204":
          description: saved
`

func TestValidationChecksPathParameters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := openapi.New(openapi.WithValidation(true)).Load(ctx, []byte(undeclaredPathParam), "notes.yaml"); err == nil {
		t.Fatalf("expected validation to reject the undeclared path parameter")
	}

	doc, err := openapi.New().Load(ctx, []byte(undeclaredPathParam), "notes.yaml")
	if err != nil {
		t.Fatalf("load without validation: %v", err)
	}
	if _, err := doc.Definition("saveNote"); err != nil {
		t.Fatalf("definition without validation: %v", err)
	}

	if _, err := openapi.New(openapi.WithValidation(true)).LoadFile(ctx, "testdata/petstore.yaml"); err != nil {
		t.Fatalf("fixture should validate: %v", err)
	}
}
