package pagination

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{-1: DefaultLimit, 0: DefaultLimit, 5: 5, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if LimitWithBuffer(5) != 6 {
		t.Fatalf("expected buffer of one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 123, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}

	if c, err := ParseCursor(" "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", c, err)
	}
	if _, err := ParseCursor("not-base64!"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestOffsetCursor(t *testing.T) {
	if EncodeOffset(0) != "" {
		t.Fatalf("zero offset should encode to empty cursor")
	}
	got, err := ParseOffset(EncodeOffset(40))
	if err != nil || got != 40 {
		t.Fatalf("expected 40, got %d err=%v", got, err)
	}
	if _, err := ParseOffset(EncodeCursor(Cursor{ID: uuid.New()})); err == nil {
		t.Fatalf("time cursor must not parse as offset")
	}
}

func TestTrim(t *testing.T) {
	rows := []int{1, 2, 3}
	page, more := Trim(rows, 2)
	if len(page) != 2 || !more {
		t.Fatalf("expected 2 rows and more, got %v %v", page, more)
	}
	page, more = Trim(rows, 3)
	if len(page) != 3 || more {
		t.Fatalf("expected full page without more, got %v %v", page, more)
	}
}

func TestCursorsAreURLSafe(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := EncodeCursor(Cursor{CreatedAt: time.Now(), ID: uuid.New()})
		if strings.ContainsAny(c, "+/=") {
			t.Fatalf("cursor %q needs escaping in a query string", c)
		}
	}
	if _, err := ParseCursor(EncodeOffset(20)); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("offset cursor must not parse as keyset, got %v", err)
	}
}
