package symtab_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"strsym/internal/diag"
	"strsym/internal/source"
	"strsym/internal/symtab"
)

func makeTestInterner(t *testing.T, mutate func(*symtab.Options)) (*symtab.Interner, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	opts := symtab.DefaultOptions()
	opts.Reporter = diag.BagReporter{Bag: bag}
	if mutate != nil {
		mutate(&opts)
	}
	return symtab.NewInterner(opts), bag
}

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func expectLabel(t *testing.T, in *symtab.Interner, content, want string) {
	t.Helper()
	if got := in.Intern(content, span(0, uint32(len(content)+2))); got != want {
		t.Errorf("Intern(%q) = %q, want %q", content, got, want)
	}
}

func TestThresholdBoundary(t *testing.T) {
	in, _ := makeTestInterner(t, nil)
	expectLabel(t, in, "abc", "")
	expectLabel(t, in, "abcd", "STRSYM_ABCD")
	// руны, а не байты: "héé": три символа
	expectLabel(t, in, "héé", "")
	expectLabel(t, in, "hééé", "STRSYM_H___")
	if in.Table().Len() != 2 {
		t.Errorf("table has %d entries, want 2", in.Table().Len())
	}
}

func TestZeroThresholdInternsEverything(t *testing.T) {
	in, bag := makeTestInterner(t, func(o *symtab.Options) { o.MinLength = 0 })
	expectLabel(t, in, "", "STRSYM_")
	expectLabel(t, in, "x", "STRSYM_X")
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestSameContentSameLabel(t *testing.T) {
	in, _ := makeTestInterner(t, nil)
	expectLabel(t, in, "hello world", "STRSYM_HELLO_WORLD")
	expectLabel(t, in, "hello world", "STRSYM_HELLO_WORLD")
	entries := in.Table().Entries()
	if len(entries) != 1 || entries[0].Uses != 2 {
		t.Fatalf("entries = %+v, want one entry used twice", entries)
	}
}

func TestEscapesArePlainCharacters(t *testing.T) {
	in, _ := makeTestInterner(t, nil)
	expectLabel(t, in, `line\n`, "STRSYM_LINE_N")
	expectLabel(t, in, `abc\"def`, "STRSYM_ABC__DEF")
	if got, _ := in.Table().Lookup("STRSYM_ABC__DEF"); got != `abc\"def` {
		t.Errorf("content = %q, want raw interior", got)
	}
}

func TestCollisionSuffix(t *testing.T) {
	in, bag := makeTestInterner(t, nil)
	expectLabel(t, in, "a-b-c", "STRSYM_A_B_C")
	expectLabel(t, in, "a b c", "STRSYM_A_B_C_2")
	expectLabel(t, in, "a.b.c", "STRSYM_A_B_C_3")
	expectLabel(t, in, "a b c", "STRSYM_A_B_C_2")

	if bag.Count(diag.SevInfo) != 2 || bag.HasErrors() || bag.HasWarnings() {
		t.Errorf("diagnostics = %+v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SymLabelCollision || len(d.Notes) != 1 {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
}

func TestCollisionOverwrite(t *testing.T) {
	in, bag := makeTestInterner(t, func(o *symtab.Options) { o.Collision = symtab.CollisionOverwrite })
	expectLabel(t, in, "a-b-c", "STRSYM_A_B_C")
	expectLabel(t, in, "a b c", "STRSYM_A_B_C")

	if got, _ := in.Table().Lookup("STRSYM_A_B_C"); got != "a b c" {
		t.Errorf("content = %q, want last writer", got)
	}
	if in.Table().Len() != 1 {
		t.Errorf("table len = %d, want 1", in.Table().Len())
	}
	if bag.Count(diag.SevWarning) != 1 {
		t.Errorf("want one warning, got %+v", bag.Items())
	}
}

func TestCollisionError(t *testing.T) {
	in, bag := makeTestInterner(t, func(o *symtab.Options) { o.Collision = symtab.CollisionError })
	expectLabel(t, in, "a-b-c", "STRSYM_A_B_C")
	expectLabel(t, in, "a b c", "")
	if !bag.HasErrors() {
		t.Fatal("expected an error diagnostic")
	}
	if got, _ := in.Table().Lookup("STRSYM_A_B_C"); got != "a-b-c" {
		t.Errorf("content = %q, want first writer", got)
	}
}

func TestInvalidIdentifierWarning(t *testing.T) {
	in, bag := makeTestInterner(t, func(o *symtab.Options) { o.Prefix = "" })
	expectLabel(t, in, "1234", "1234")
	if bag.Count(diag.SevWarning) != 1 || bag.Items()[0].Code != diag.SymInvalidIdentifier {
		t.Errorf("diagnostics = %+v", bag.Items())
	}
}

func TestEmptyLabelIsNotInterned(t *testing.T) {
	in, bag := makeTestInterner(t, func(o *symtab.Options) {
		o.Prefix = ""
		o.MinLength = 0
	})
	expectLabel(t, in, "", "")
	if in.Table().Len() != 0 || !bag.HasWarnings() {
		t.Errorf("len = %d, diagnostics = %+v", in.Table().Len(), bag.Items())
	}
}

func TestLabelOrder(t *testing.T) {
	in, _ := makeTestInterner(t, func(o *symtab.Options) { o.Order = symtab.OrderLabel })
	for _, s := range []string{"zeta", "alpha", "mike"} {
		in.Intern(s, span(0, 1))
	}
	var got []string
	for _, e := range in.Table().Entries() {
		got = append(got, e.Label)
	}
	want := []string{"STRSYM_ALPHA", "STRSYM_MIKE", "STRSYM_ZETA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	raw := in.Table().Raw()
	if raw[0].Label != "STRSYM_ZETA" {
		t.Errorf("Raw()[0] = %s, want insertion order", raw[0].Label)
	}
}

func TestFromEntries(t *testing.T) {
	in, _ := makeTestInterner(t, nil)
	in.Intern("first one", span(1, 12))
	in.Intern("second", span(20, 28))
	rebuilt := symtab.FromEntries(symtab.OrderInsertion, in.Table().Raw())
	if diff := cmp.Diff(in.Table().Entries(), rebuilt.Entries(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("rebuilt table mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		content string
		fold    bool
		want    string
	}{
		{"abcdefg", false, "P_ABCDEFG"},
		{"Hello, World!", false, "P_HELLO__WORLD_"},
		{"snake_case_42", false, "P_SNAKE_CASE_42"},
		{"café", false, "P_CAF_"},
		{"café", true, "P_CAFE"},
		{"ﬁle", true, "P_FILE"},
		{"\xff\xfeab", false, "P___AB"},
		{"\xff\xfeab", true, "P___AB"},
	}
	for _, tt := range tests {
		if got := symtab.DeriveLabel("P_", tt.content, tt.fold); got != tt.want {
			t.Errorf("DeriveLabel(%q, fold=%v) = %q, want %q", tt.content, tt.fold, got, tt.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	long := strings.Repeat("x", 300)
	for s, want := range map[string]bool{
		"":          false,
		"_":         true,
		"STRSYM_A1": true,
		"1A":        false,
		"A-B":       false,
		long:        true,
	} {
		if got := symtab.IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParsePolicies(t *testing.T) {
	if c, err := symtab.ParseCollision("Overwrite"); err != nil || c != symtab.CollisionOverwrite {
		t.Errorf("ParseCollision(Overwrite) = %v, %v", c, err)
	}
	if _, err := symtab.ParseCollision("merge"); err == nil {
		t.Error("expected error for unknown policy")
	}
	if o, err := symtab.ParseOrder("label"); err != nil || o != symtab.OrderLabel {
		t.Errorf("ParseOrder(label) = %v, %v", o, err)
	}
	if _, err := symtab.ParseOrder("random"); err == nil {
		t.Error("expected error for unknown order")
	}
}
