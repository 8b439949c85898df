package engine

import (
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want ParsedTag
		ok   bool
	}{
		{
			name: "bracket signature",
			tag:  "[[SIGNATURE:employee]]",
			want: ParsedTag{Type: TypeSignature, Role: "employee"},
			ok:   true,
		},
		{
			name: "bracket date",
			tag:  "[[DATE:employee]]",
			want: ParsedTag{Type: TypeDate, Role: "employee"},
			ok:   true,
		},
		{
			name: "bracket text gets catch-all role",
			tag:  "[[TEXT:comment]]",
			want: ParsedTag{Type: TypeText, Role: RoleAny, FieldName: "comment"},
			ok:   true,
		},
		{
			name: "brace signature",
			tag:  "{{Sig_es_:signer1:signature}}",
			want: ParsedTag{Type: TypeSignature, Role: "signer1"},
			ok:   true,
		},
		{
			name: "brace date with numbered prefix",
			tag:  "{{Dte1_es_:signer1:date}}",
			want: ParsedTag{Type: TypeDate, Role: "signer1", FieldName: "Dte1"},
			ok:   true,
		},
		{
			name: "brace date marker prefix without suffix",
			tag:  "{{Date2_es_:signer2}}",
			want: ParsedTag{Type: TypeDate, Role: "signer2", FieldName: "Date2"},
			ok:   true,
		},
		{
			name: "brace initials",
			tag:  "{{Int_es_:signer1:initials}}",
			want: ParsedTag{Type: TypeText, Role: "signer1", FieldName: "Int"},
			ok:   true,
		},
		{
			name: "brace plain field with hash",
			tag:  "{{Lic#_es_:signer1}}",
			want: ParsedTag{Type: TypeText, Role: "signer1", FieldName: "Lic#"},
			ok:   true,
		},
		{
			name: "brace generic text field",
			tag:  "{{TitleA_es_:signer1}}",
			want: ParsedTag{Type: TypeText, Role: "signer1", FieldName: "TitleA"},
			ok:   true,
		},
		{
			name: "unknown prefix with signature suffix is excluded",
			tag:  "{{Foo_es_:signer1:signature}}",
			ok:   false,
		},
		{
			name: "unknown prefix with date suffix is excluded",
			tag:  "{{Foo_es_:signer1:date}}",
			ok:   false,
		},
		{
			name: "bracket unknown kind",
			tag:  "[[STAMP:employee]]",
			ok:   false,
		},
		{
			name: "brace missing interop marker",
			tag:  "{{Sig:signer1:signature}}",
			ok:   false,
		},
		{
			name: "not a tag at all",
			tag:  "hello world",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTag(tt.tag)
			if ok != tt.ok {
				t.Fatalf("ParseTag(%q) ok = %v, want %v", tt.tag, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestPlaceholderBox(t *testing.T) {
	if w, h := placeholderBox(TypeSignature); w != SignatureWidth || h != SignatureHeight {
		t.Errorf("signature box = %vx%v", w, h)
	}
	if w, h := placeholderBox(TypeDate); w != DateWidth || h != DateHeight {
		t.Errorf("date box = %vx%v", w, h)
	}
	if w, h := placeholderBox(TypeText); w != TextWidth || h != TextHeight {
		t.Errorf("text box = %vx%v", w, h)
	}
}
