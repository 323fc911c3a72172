package schema

import "testing"

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(
		OptionSpec{Name: "writable", Type: Bool()},
		OptionSpec{Name: "writable", Type: Bool()},
	)
	if err == nil {
		t.Fatal("expected error for duplicate option names")
	}
}

func TestNew_RejectsEmptyName(t *testing.T) {
	_, err := New(OptionSpec{Type: Bool()})
	if err == nil {
		t.Fatal("expected error for empty option name")
	}
}

func TestSchema_Lookup(t *testing.T) {
	s := MustNew(
		OptionSpec{Name: "writable", Type: Bool()}.WithDefault(true),
		OptionSpec{Name: "description", Type: String()},
	)

	spec, ok := s.Lookup("writable")
	if !ok {
		t.Fatal("expected writable to be declared")
	}
	if !spec.HasDefault || spec.Default != true {
		t.Errorf("expected default true, got %v (has=%v)", spec.Default, spec.HasDefault)
	}

	if _, ok := s.Lookup("nope"); ok {
		t.Error("expected lookup miss for undeclared option")
	}
	if s.Has("nope") {
		t.Error("Has should report undeclared option as absent")
	}
}

func TestSchema_OptionsPreservesOrderAndCopies(t *testing.T) {
	s := MustNew(
		OptionSpec{Name: "a", Type: Bool()},
		OptionSpec{Name: "b", Type: Bool()},
		OptionSpec{Name: "c", Type: Bool()},
	)

	opts := s.Options()
	if opts[0].Name != "a" || opts[1].Name != "b" || opts[2].Name != "c" {
		t.Errorf("declaration order not preserved: %v", opts)
	}

	// Mutating the returned slice must not affect the schema.
	opts[0] = OptionSpec{Name: "mutated", Type: String()}
	if got, _ := s.Lookup("a"); got.Name != "a" {
		t.Error("schema mutated through Options() result")
	}
}

func TestWithDefault_DistinguishesExplicitNil(t *testing.T) {
	spec := OptionSpec{Name: "source", Type: Symbol()}
	if spec.HasDefault {
		t.Fatal("fresh spec should have no default")
	}
	spec = spec.WithDefault(nil)
	if !spec.HasDefault {
		t.Fatal("explicit nil default should count as a default")
	}
}
