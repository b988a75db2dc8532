package entry

import (
	"errors"
	"reflect"
	"testing"
)

func TestEntry_Field(t *testing.T) {
	e := Entry{
		Label:       "Open README",
		Description: "project readme",
		Target:      "README.md",
		Kind:        KindMarkdown,
		Category:    "Docs / Project",
		Tags:        []string{"docs", "intro"},
		Extra: map[string]any{
			"owner": "platform",
			"count": 3,
		},
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{FieldLabel, "Open README", true},
		{FieldDescription, "project readme", true},
		{FieldDetail, "", false},
		{FieldTarget, "README.md", true},
		{FieldKind, "markdown", true},
		{FieldCategory, "Docs / Project", true},
		{FieldTags, "docs intro", true},
		{"owner", "platform", true},
		{"count", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Field(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Field(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEntry_FieldNilExtra(t *testing.T) {
	e := Entry{Label: "x"}
	if v, ok := e.Field("anything"); ok || v != "" {
		t.Errorf("expected empty lookup, got (%q, %v)", v, ok)
	}
}

func TestRef_RoundTrip(t *testing.T) {
	ref := Ref{2, 0, 11}
	if got := ref.String(); got != "2.0.11" {
		t.Fatalf("String() = %q", got)
	}

	parsed, err := ParseRef(ref.String())
	if err != nil {
		t.Fatalf("ParseRef() error = %v", err)
	}
	if !reflect.DeepEqual(parsed, ref) {
		t.Errorf("ParseRef() = %v, want %v", parsed, ref)
	}
}

func TestParseRef_Invalid(t *testing.T) {
	for _, s := range []string{"", "  ", "a.b", "1..2", "-1", "1.-2"} {
		if _, err := ParseRef(s); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("ParseRef(%q) error = %v, want ErrInvalidRef", s, err)
		}
	}
}

func TestRef_Clone(t *testing.T) {
	ref := Ref{1, 2}
	clone := ref.Clone()
	clone[0] = 9
	if ref[0] != 1 {
		t.Error("Clone shares backing array with original")
	}
	if Ref(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if Kind("category").Valid() {
		t.Error("category is not an entry kind")
	}
}

func TestFielderFunc(t *testing.T) {
	get := FielderFunc[Entry]()
	v, ok := get(Entry{Label: "abc"}, FieldLabel)
	if v != "abc" || !ok {
		t.Errorf("got (%q, %v)", v, ok)
	}
}
