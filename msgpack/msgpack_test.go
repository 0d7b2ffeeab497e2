package msgpack

import (
	"bytes"
	"context"
	"testing"

	"github.com/zoobzio/codable"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	original := codable.Raw{
		"name":  "test",
		"value": 42,
		"neg":   -7,
		"list":  []any{"x", map[string]any{"k": "v"}},
	}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored["name"] != "test" {
		t.Errorf("name = %v", restored["name"])
	}
	if restored["neg"] != int64(-7) {
		t.Errorf("neg = %#v, want int64(-7)", restored["neg"])
	}
	list, ok := restored["list"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("list = %#v", restored["list"])
	}
	if m, ok := list[1].(map[string]any); !ok || m["k"] != "v" {
		t.Errorf("list[1] = %#v", list[1])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	c := New()
	raw := codable.Raw{"c": 1, "a": 2, "b": 3}

	first, err := c.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for range 10 {
		again, err := c.Marshal(raw)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal() output differs between calls")
		}
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	if _, err := c.Unmarshal([]byte{0xc1}); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

type item struct {
	SKU   string
	Count uint8
}

type order struct {
	ID    int
	Items []item
}

func TestEngineRoundTrip(t *testing.T) {
	r := codable.NewRegistry()
	codable.MustRegister[order](r, codable.WithNested[item]("Items"))
	e := codable.NewEngine(r)
	c := New()
	ctx := context.Background()

	in := &order{ID: 9, Items: []item{{"A-1", 2}, {"B-7", 1}}}
	raw, err := codable.Encode(ctx, e, in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	data, err := c.Marshal(raw)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	back, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	out, err := codable.Decode[order](ctx, e, back)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if out.ID != 9 || len(out.Items) != 2 || out.Items[1] != in.Items[1] {
		t.Errorf("round-trip = %+v, want %+v", out, in)
	}
}
