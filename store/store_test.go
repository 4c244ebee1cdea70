package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/validate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "intake.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testForm(name string, isDefault bool) *schema.FormConfiguration {
	return &schema.FormConfiguration{
		Name:            name,
		ApplicationType: schema.TypeWholesale,
		IsActive:        true,
		IsDefault:       isDefault,
		Fields: []schema.Field{
			{ID: "company_name", Label: "Company Name", Type: schema.FieldText, Required: true, Order: 1},
			{
				ID: "business_type", Label: "Business Type", Type: schema.FieldSelect, Order: 2,
				Options: []schema.Option{
					{Value: "retailer", Label: "Retailer"},
					{Value: "distributor", Label: "Distributor"},
				},
			},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f := testForm("Wholesale Intake", true)
	if err := s.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if f.Version != "1.0.0" {
		t.Errorf("version = %s, want 1.0.0", f.Version)
	}

	got, err := s.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Wholesale Intake" || !got.IsDefault {
		t.Errorf("got = %+v", got)
	}
	if len(got.Fields) != 2 || got.Fields[1].Options[0].Value != "retailer" {
		t.Errorf("fields did not round-trip: %+v", got.Fields)
	}

	byType, err := s.GetActiveFormByType(ctx, schema.TypeWholesale)
	if err != nil {
		t.Fatalf("GetActiveFormByType: %v", err)
	}
	if byType.ID != f.ID {
		t.Errorf("resolved %s, want %s", byType.ID, f.ID)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetActiveFormByType(ctx, schema.TypeClinical); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetActiveFormByType error = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsInvalidForm(t *testing.T) {
	s := openTestStore(t)

	bad := testForm("Broken", false)
	bad.Fields = nil
	if err := s.Create(context.Background(), bad); err == nil {
		t.Error("expected invariant error")
	}
}

func TestCreateClearsSiblingDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := testForm("First", true)
	if err := s.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := testForm("Second", true)
	if err := s.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	assertSingleDefault(t, s, second.ID)
}

func TestSetDefault(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := testForm("First", true)
	second := testForm("Second", false)
	for _, f := range []*schema.FormConfiguration{first, second} {
		if err := s.Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SetDefault(ctx, second.ID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	assertSingleDefault(t, s, second.ID)

	if err := s.SetDefault(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDefault(missing) = %v, want ErrNotFound", err)
	}
}

func assertSingleDefault(t *testing.T, s *Store, wantID string) {
	t.Helper()
	forms, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var defaults []string
	for _, f := range forms {
		if f.IsDefault {
			defaults = append(defaults, f.ID)
		}
	}
	if len(defaults) != 1 || defaults[0] != wantID {
		t.Errorf("default forms = %v, want exactly [%s]", defaults, wantID)
	}
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	f := testForm("Wholesale Intake", false)
	if err := s.Create(ctx, f); err != nil {
		t.Fatal(err)
	}

	f.Name = "Wholesale Intake v2"
	f.Version = "2.0.0"
	f.Fields = append(f.Fields, schema.Field{ID: "launch_date", Type: schema.FieldDate, Order: 3})
	if err := s.Update(ctx, f); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Wholesale Intake v2" || got.Version != "2.0.0" || len(got.Fields) != 3 {
		t.Errorf("got = %+v", got)
	}

	missing := testForm("Ghost", false)
	missing.ID = "nope"
	if err := s.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub := &Submission{
		ApplicationType: schema.TypeWholesale,
		FormID:          "form-1",
		FormVersion:     "1.0.0",
		Data:            map[string]any{"company_name": "Acme", "business_type": "retailer"},
		Warnings: []validate.Issue{
			{Field: "extra", Label: "extra", Code: validate.CodeUnexpectedField, Message: "unexpected"},
		},
	}
	if err := s.SaveSubmission(ctx, sub); err != nil {
		t.Fatalf("SaveSubmission: %v", err)
	}
	if sub.ID == "" {
		t.Fatal("SaveSubmission did not assign an ID")
	}

	subs, err := s.ListSubmissions(ctx, schema.TypeWholesale, 10)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	got := subs[0]
	if got.Data["company_name"] != "Acme" {
		t.Errorf("data = %v", got.Data)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Field != "extra" {
		t.Errorf("warnings = %v", got.Warnings)
	}

	// Other types see nothing.
	other, err := s.ListSubmissions(ctx, schema.TypeClinical, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("clinical submissions = %v", other)
	}
}

func TestListSubmissionsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sub := &Submission{
			ApplicationType: schema.TypeCustom,
			FormID:          "form-1",
			FormVersion:     "1.0.0",
			Data:            map[string]any{"n": i},
		}
		if err := s.SaveSubmission(ctx, sub); err != nil {
			t.Fatal(err)
		}
	}

	subs, err := s.ListSubmissions(ctx, schema.TypeCustom, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 3 {
		t.Errorf("got %d submissions, want 3", len(subs))
	}

	all, err := s.ListSubmissions(ctx, schema.TypeCustom, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("got %d submissions, want 5", len(all))
	}
}
