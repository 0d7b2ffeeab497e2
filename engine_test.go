package codable

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type Address struct {
	City string
	Zip  string
}

type Person struct {
	Name    string
	Age     int
	Extra   string
	Address any
}

type Plain struct {
	Name   string
	Age    int
	Score  float64
	Active bool
	Tags   []string
}

type Catchall struct {
	Name  string
	Rest  map[string]any `codable:",remain"`
	Skip  string         `codable:"-"`
	count int
}

type Node struct {
	Label    string
	Children []*Node
}

type Employee struct {
	First   string
	Last    string
	Home    Address
	Offices []Address
	Boss    *Employee
}

func (e Employee) FullName() string {
	return e.First + " " + e.Last
}

func (e *Employee) Initials() string {
	if e.First == "" || e.Last == "" {
		return ""
	}
	return e.First[:1] + e.Last[:1]
}

type Listed struct {
	A string
	B string
	C string
}

func (l Listed) CodableFields() []string {
	return []string{"C", "Joined"}
}

func (l Listed) Joined() string {
	return strings.Join([]string{l.A, l.B, l.C}, "-")
}

// newTestEngine registers the fixtures used across the engine tests.
func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	r := NewRegistry()
	register := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Register() error: %v", err)
		}
	}
	register(Register[Person](r,
		WithRenames(RenameTable{"Name": "n", "Age": "a", "Address": "Address"}),
		WithNested[Address]("Address"),
	))
	register(Register[Catchall](r))
	register(Register[Node](r, WithNested[Node]("Children")))
	register(Register[Employee](r,
		WithNested[Address]("Home"),
		WithNested[Address]("Offices"),
		WithNested[Employee]("Boss"),
		WithComputed("FullName", "Initials"),
	))
	register(Register[Listed](r))
	return NewEngine(r)
}

// observeLogs routes the package logger to an in-memory core for the
// duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestRoundTripPlain(t *testing.T) {
	e := NewEngine(NewRegistry())
	ctx := context.Background()

	in := Plain{Name: "Ann", Age: 41, Score: 9.5, Active: true, Tags: []string{"x", "y"}}
	raw, err := e.Encode(ctx, in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	out, err := Decode[Plain](ctx, e, raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(*out, in) {
		t.Errorf("round trip = %+v, want %+v", *out, in)
	}
}

func TestRenameSymmetry(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	raw, err := Encode(ctx, e, &Person{Name: "Bob", Age: 5})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if want := (Raw{"n": "Bob", "a": 5, "Address": nil}); !reflect.DeepEqual(raw, want) {
		t.Errorf("Encode() = %v, want %v", raw, want)
	}

	p, err := Decode[Person](ctx, e, Raw{"n": "Bob", "a": 5})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.Name != "Bob" || p.Age != 5 {
		t.Errorf("Decode() = %+v", p)
	}
}

func TestEngineRegistry(t *testing.T) {
	r := NewRegistry()
	if NewEngine(r).Registry() != r {
		t.Error("Registry() should return the registry passed to NewEngine")
	}
}

func TestDropLogsAtDebug(t *testing.T) {
	logs := observeLogs(t)
	e := newTestEngine(t)

	if _, err := Decode[Plain](context.Background(), e, Raw{"Age": "old", "Missing": 1}); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	dropped := logs.FilterMessage("codable: dropped field").All()
	if len(dropped) != 2 {
		t.Fatalf("logged %d drops, want 2", len(dropped))
	}
	if got := dropped[0].ContextMap()["field"]; got != "Age" {
		t.Errorf("first drop field = %v, want Age", got)
	}
	if got := dropped[1].ContextMap()["field"]; got != "Missing" {
		t.Errorf("second drop field = %v, want Missing", got)
	}
	if got := dropped[1].ContextMap()["reason"]; got != "no such field" {
		t.Errorf("second drop reason = %v", got)
	}
}

func TestIgnoredAnnotationLogsAtDebug(t *testing.T) {
	logs := observeLogs(t)

	NewRegistry().RegisterFieldType(reflect.TypeFor[Person](), "Name", reflect.TypeFor[int]())

	entries := logs.FilterMessage("codable: ignored field type annotation").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["nested"]; got != "int" {
		t.Errorf("nested = %v, want int", got)
	}
}
