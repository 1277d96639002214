package literal

import (
	"bytes"
	"testing"
)

// TestLiteralBasic tests basic Literal type functionality
func TestLiteralBasic(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []byte
		complete bool
		wantLen  int
		wantStr  string
	}{
		{"complete literal", []byte("hello"), true, 5, "literal{hello, complete=true}"},
		{"incomplete literal", []byte("test"), false, 4, "literal{test, complete=false}"},
		{"empty literal", []byte{}, true, 0, "literal{, complete=true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := NewLiteral(tt.bytes, tt.complete)
			if got := lit.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
			if got := lit.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestSeqNil(t *testing.T) {
	var s *Seq
	if s.Len() != 0 || !s.IsEmpty() || s.MinLen() != 0 || s.Bytes() != nil || s.Clone() != nil {
		t.Error("nil Seq should behave as empty")
	}
}

func TestSeqMinimize(t *testing.T) {
	tests := []struct {
		name         string
		in           []string
		want         []string
		wantComplete bool
	}{
		{"contained literal dropped", []string{"xfoobar", "foo"}, []string{"foo"}, false},
		{"duplicates", []string{"foo", "foo", "bar"}, []string{"bar", "foo"}, true},
		{"independent", []string{"world", "hello", "hi"}, []string{"hi", "hello", "world"}, true},
		{"suffix", []string{"cat", "at"}, []string{"at"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lits := make([]Literal, len(tt.in))
			for i, s := range tt.in {
				lits[i] = NewLiteral([]byte(s), true)
			}
			seq := NewSeq(lits...)
			seq.Minimize()

			if seq.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", seq.Len(), len(tt.want))
			}
			for i, w := range tt.want {
				got := seq.Get(i)
				if string(got.Bytes) != w {
					t.Errorf("literal %d = %q, want %q", i, got.Bytes, w)
				}
				if got.Complete != tt.wantComplete {
					t.Errorf("literal %d Complete = %v, want %v", i, got.Complete, tt.wantComplete)
				}
			}
		})
	}
}

func TestSeqClone(t *testing.T) {
	original := NewSeq(NewLiteral([]byte("test"), true))
	clone := original.Clone()
	clone.Get(0).Bytes[0] = 'X'
	if !bytes.Equal(original.Get(0).Bytes, []byte("test")) {
		t.Errorf("original modified through clone: %q", original.Get(0).Bytes)
	}
}

func TestSeqMinLenAndBytes(t *testing.T) {
	seq := NewSeq(NewLiteral([]byte("abc"), false), NewLiteral([]byte("de"), false))
	if got := seq.MinLen(); got != 2 {
		t.Errorf("MinLen() = %d, want 2", got)
	}
	got := seq.Bytes()
	if len(got) != 2 || string(got[0]) != "abc" || string(got[1]) != "de" {
		t.Errorf("Bytes() = %q", got)
	}
}
