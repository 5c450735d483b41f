package flow

import "testing"

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid", "9876543210", true},
		{"too short", "123456789", false},
		{"too long", "98765432101", false},
		{"letters", "98765abc10", false},
		{"plus prefix", "+987654321", false},
		{"spaces", "98765 4321", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePhone(tc.input)
			if tc.ok && err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.input, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected %q to fail", tc.input)
			}
		})
	}
}

func TestValidateNonEmpty(t *testing.T) {
	if err := ValidateNonEmpty("John"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateNonEmpty("   "); err == nil {
		t.Fatal("expected whitespace-only input to fail")
	}
}

func TestVariantByName(t *testing.T) {
	basic, err := VariantByName("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basic.Name != "basic" || len(basic.Steps) != 4 {
		t.Fatalf("unexpected default variant: %s with %d steps", basic.Name, len(basic.Steps))
	}
	if len(basic.Columns) != 6 {
		t.Fatalf("basic variant must persist 6 columns, got %d", len(basic.Columns))
	}
	// The deployed sheet header stores service before branch.
	if basic.Columns[3] != "service" || basic.Columns[4] != "branch" {
		t.Fatalf("unexpected basic column order: %v", basic.Columns)
	}

	ext, err := VariantByName("Extended")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ext.Steps) != 9 || len(ext.Columns) != 11 {
		t.Fatalf("unexpected extended shape: %d steps, %d columns", len(ext.Steps), len(ext.Columns))
	}

	if _, err := VariantByName("bogus"); err == nil {
		t.Fatal("expected unknown variant error")
	}
}
