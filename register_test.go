package codable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/sentinel"
)

type Badge struct {
	Label string `json:"label" send.redact:"[hidden]"`
	Level int
}

func TestRegister(t *testing.T) {
	r := NewRegistry()

	err := Register[Person](r,
		WithRenames(RenameTable{"Name": "n"}),
		WithNested[Address]("Address"),
		WithComputed("Nothing"),
	)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	table, ok := r.LookupRenameTable(reflect.TypeFor[Person]())
	if !ok || table["Name"] != "n" {
		t.Errorf("LookupRenameTable() = %v, %v", table, ok)
	}
	nested, ok := r.LookupFieldType(reflect.TypeFor[Person](), "Address")
	if !ok || nested != reflect.TypeFor[Address]() {
		t.Errorf("LookupFieldType() = %v, %v", nested, ok)
	}
	if !r.Known(reflect.TypeFor[Address]()) {
		t.Error("nested type should be known after Register")
	}
}

func TestRegisterWithoutOptions(t *testing.T) {
	r := NewRegistry()

	if err := Register[Plain](r); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !r.Known(reflect.TypeFor[Plain]()) {
		t.Error("Plain should be known")
	}
	if _, ok := r.LookupRenameTable(reflect.TypeFor[Plain]()); ok {
		t.Error("Register without WithRenames should not store a table")
	}
}

func TestRegisterWithFieldTypeLastWins(t *testing.T) {
	r := NewRegistry()

	err := Register[Person](r,
		WithFieldType("Address", reflect.TypeFor[Plain]()),
		WithFieldType("Address", reflect.TypeFor[*Address]()),
	)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	nested, _ := r.LookupFieldType(reflect.TypeFor[Person](), "Address")
	if nested != reflect.TypeFor[Address]() {
		t.Errorf("LookupFieldType() = %v, want Address", nested)
	}
}

func TestRegisterRejectsNonStruct(t *testing.T) {
	r := NewRegistry()

	if err := Register[int](r); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Register[int]() error = %v, want ErrNotStruct", err)
	}
	if err := Register[*Person](r); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Register[*Person]() error = %v, want ErrNotStruct", err)
	}
	if err := Register[Person](r, WithFieldType("Address", reflect.TypeFor[string]())); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Register() with string annotation error = %v, want ErrNotStruct", err)
	}
	if err := Register[Person](r, WithFieldType("Address", nil)); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Register() with nil annotation error = %v, want ErrNotStruct", err)
	}
	if len(r.Types()) != 0 {
		t.Errorf("failed registrations left types behind: %v", r.Types())
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister[int]() should panic")
		}
	}()
	MustRegister[int](NewRegistry())
}

func TestParseCodableTag(t *testing.T) {
	tests := []struct {
		tag    string
		name   string
		remain bool
	}{
		{"", "", false},
		{"-", "-", false},
		{",remain", "", true},
		{"x, remain", "x", true},
		{",omitempty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			name, remain := parseCodableTag(tt.tag)
			if name != tt.name || remain != tt.remain {
				t.Errorf("parseCodableTag(%q) = %q, %v; want %q, %v", tt.tag, name, remain, tt.name, tt.remain)
			}
		})
	}
}

func TestDescriptorSkipsEmbeddedPromotions(t *testing.T) {
	type Base struct {
		ID string
	}
	type Wrapped struct {
		Base
		Name string
	}

	desc := NewRegistry().describe(reflect.TypeFor[Wrapped]())

	if _, ok := desc.field("Base"); !ok {
		t.Error("embedded struct should be a field of its own")
	}
	if _, ok := desc.field("ID"); ok {
		t.Error("promoted field should not be flattened")
	}
	if _, ok := desc.field("Name"); !ok {
		t.Error("Name should be a field")
	}
}

func TestDescriptorActions(t *testing.T) {
	type Tagged struct {
		Secret string `receive.hash:"sha256" send.redact:"***"`
		Plain  string
	}

	desc := NewRegistry().describe(reflect.TypeFor[Tagged]())

	fd, ok := desc.field("Secret")
	if !ok {
		t.Fatal("Secret missing from descriptor")
	}
	want := map[string]string{tagReceiveHash: "sha256", tagSendRedact: "***"}
	if !reflect.DeepEqual(fd.actions, want) {
		t.Errorf("actions = %v, want %v", fd.actions, want)
	}
	if fd, _ := desc.field("Plain"); fd.actions != nil {
		t.Errorf("Plain actions = %v, want none", fd.actions)
	}
}

func TestRegisterKeepsSentinelMetadata(t *testing.T) {
	r := NewRegistry()
	if err := Register[Badge](r); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	typ := reflect.TypeFor[Badge]()
	if _, ok := r.metadata[typ]; !ok {
		t.Fatal("Register did not keep the sentinel scan")
	}

	desc := r.describe(typ)
	if desc.meta.PackageName != typ.PkgPath() || desc.meta.TypeName != "Badge" {
		t.Errorf("meta = %s.%s", desc.meta.PackageName, desc.meta.TypeName)
	}
	// Only sentinel captures its common tags such as json.
	if got := desc.meta.Fields[0].Tags["json"]; got != "label" {
		t.Errorf("json tag = %q, want label from sentinel metadata", got)
	}
	fd, ok := desc.field("Label")
	if !ok || fd.actions[tagSendRedact] != "[hidden]" {
		t.Errorf("Label actions = %v", fd.actions)
	}
}

func TestDescribeUsesCachedSentinelScan(t *testing.T) {
	sentinel.Scan[Badge]()

	desc := NewRegistry().describe(reflect.TypeFor[Badge]())
	if got := desc.meta.Fields[0].Tags["json"]; got != "label" {
		t.Errorf("json tag = %q, want label from sentinel metadata", got)
	}
}

func TestDescribeIgnoresForeignSentinelEntry(t *testing.T) {
	sentinel.Scan[Badge]()

	// Same bare name as the package level Badge, different fields.
	type Badge struct {
		Code string
	}

	desc := NewRegistry().describe(reflect.TypeFor[Badge]())
	if len(desc.fields) != 1 || desc.fields[0].name != "Code" {
		t.Errorf("fields = %+v, want only Code", desc.fields)
	}

	r := NewRegistry()
	if err := Register[Badge](r); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, ok := r.metadata[reflect.TypeFor[Badge]()]; ok {
		t.Error("Register kept sentinel metadata describing another type")
	}
}
