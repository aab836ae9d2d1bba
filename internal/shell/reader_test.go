package shell

import (
	"testing"

	"wisp/internal/wispval"
)

func TestReadNumber(t *testing.T) {
	v, rest, ok, err := Read("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a form")
	}
	if rest != "" {
		t.Fatalf("rest = %q, want empty", rest)
	}
	if n, isFixnum := v.(wispval.Fixnum); !isFixnum || n != 42 {
		t.Fatalf("got %#v, want Fixnum(42)", v)
	}
}

func TestReadSymbol(t *testing.T) {
	v, _, ok, err := Read("foo")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	sym, isSym := v.(wispval.Symbol)
	if !isSym || sym.Name != "foo" {
		t.Fatalf("got %#v, want symbol foo", v)
	}
}

func TestReadList(t *testing.T) {
	v, _, ok, err := Read("(+ 1 2)")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	items, isList := listSlice(v)
	if !isList || len(items) != 3 {
		t.Fatalf("got %#v, want a 3-element list", v)
	}
	head, isSym := items[0].(wispval.Symbol)
	if !isSym || head.Name != "+" {
		t.Fatalf("head = %#v, want symbol +", items[0])
	}
}

func TestReadQuote(t *testing.T) {
	v, _, ok, err := Read("'a")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	items, isList := listSlice(v)
	if !isList || len(items) != 2 {
		t.Fatalf("got %#v, want (quote a)", v)
	}
	head, isSym := items[0].(wispval.Symbol)
	if !isSym || head.Name != "quote" {
		t.Fatalf("head = %#v, want quote", items[0])
	}
	sym, isSym := items[1].(wispval.Symbol)
	if !isSym || sym.Name != "a" {
		t.Fatalf("tail = %#v, want symbol a", items[1])
	}
}

func TestReadString(t *testing.T) {
	v, _, ok, err := Read(`"hello\nworld"`)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	s, isString := v.(wispval.String)
	if !isString || string(s) != "hello\nworld" {
		t.Fatalf("got %#v, want %q", v, "hello\nworld")
	}
}

func TestReadBooleans(t *testing.T) {
	v, _, ok, err := Read("#t")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if v != wispval.True {
		t.Fatalf("got %#v, want #t", v)
	}

	v, _, ok, err = Read("#f")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if v != wispval.False {
		t.Fatalf("got %#v, want #f", v)
	}
}

func TestReadSkipsCommentsAndWhitespace(t *testing.T) {
	v, _, ok, err := Read("  ; a comment\n  7")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if n, isFixnum := v.(wispval.Fixnum); !isFixnum || n != 7 {
		t.Fatalf("got %#v, want Fixnum(7)", v)
	}
}

func TestReadBlankInputNotOK(t *testing.T) {
	_, _, ok, err := Read("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for blank input")
	}
}

func TestReadLeavesRemainingText(t *testing.T) {
	_, rest, ok, err := Read("1 2 3")
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if rest != " 2 3" {
		t.Fatalf("rest = %q, want %q", rest, " 2 3")
	}
}

func TestReadUnterminatedListErrors(t *testing.T) {
	_, _, _, err := Read("(+ 1 2")
	if err == nil {
		t.Fatal("expected an error for an unterminated list")
	}
}
