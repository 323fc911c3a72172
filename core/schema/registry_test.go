package schema

import (
	"testing"
	"time"

	"github.com/artpar/attrkit/core/attribute"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	now := attribute.Generator(func() (any, error) { return time.Unix(0, 0).UTC(), nil })
	newID := attribute.Generator(func() (any, error) { return "id-1", nil })
	reg, err := NewRegistry(now, newID)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestRegistry_AllKindsPresent(t *testing.T) {
	reg := testRegistry(t)
	for _, kind := range Kinds() {
		if _, ok := reg.Get(kind); !ok {
			t.Errorf("kind %q missing from registry", kind)
		}
	}
	if _, ok := reg.Get("no_such_kind"); ok {
		t.Error("unknown kind should miss")
	}
}

func TestRegistry_PrimaryKeyVariantsRemoveAllowNil(t *testing.T) {
	reg := testRegistry(t)
	for _, kind := range []Kind{KindUUIDPrimaryKey, KindIntegerPrimaryKey} {
		s, _ := reg.Get(kind)
		if s.Has(OptAllowNil) {
			t.Errorf("%s: allow_nil must be absent from the schema surface", kind)
		}
		spec, ok := s.Lookup(OptPrimaryKey)
		if !ok || spec.Default != true {
			t.Errorf("%s: primary_key must default to true", kind)
		}
		spec, _ = s.Lookup(OptWritable)
		if spec.Default != false {
			t.Errorf("%s: writable must default to false", kind)
		}
	}
}

func TestRegistry_TimestampVariants(t *testing.T) {
	reg := testRegistry(t)

	createTS, _ := reg.Get(KindCreateTimestamp)
	updateTS, _ := reg.Get(KindUpdateTimestamp)

	for kind, s := range map[Kind]Schema{KindCreateTimestamp: createTS, KindUpdateTimestamp: updateTS} {
		spec, _ := s.Lookup(OptType)
		if spec.Default != "utc_datetime_usec" {
			t.Errorf("%s: type default = %v, want utc_datetime_usec", kind, spec.Default)
		}
		spec, _ = s.Lookup(OptMatchOtherDefaults)
		if spec.Default != true {
			t.Errorf("%s: match_other_defaults must default to true", kind)
		}
		spec, _ = s.Lookup(OptPrivate)
		if spec.Default != true {
			t.Errorf("%s: private must default to true", kind)
		}
	}

	// Both timestamp kinds must carry the same generator reference so
	// created_at/updated_at on one record resolve to one instant.
	createDefault, _ := createTS.Lookup(OptDefault)
	updateDefault, _ := updateTS.Lookup(OptDefault)
	ctok, ok := createDefault.Default.(attribute.Default).Token()
	if !ok {
		t.Fatal("create timestamp default is not a generator")
	}
	utok, ok := updateDefault.Default.(attribute.Default).Token()
	if !ok {
		t.Fatal("update timestamp default is not a generator")
	}
	if ctok != utok {
		t.Error("timestamp variants must share one now-generator reference")
	}

	// Only the update variant stamps on updates.
	spec, _ := updateTS.Lookup(OptUpdateDefault)
	if !spec.HasDefault {
		t.Error("update timestamp must configure update_default")
	}
	upd, _ := updateTS.Lookup(OptUpdateDefault)
	if tok, ok := upd.Default.(attribute.Default).Token(); !ok || tok != ctok {
		t.Error("update_default must reuse the same now-generator reference")
	}
	spec, _ = createTS.Lookup(OptUpdateDefault)
	if spec.HasDefault {
		t.Error("create timestamp must not configure update_default")
	}
}

func TestRegistry_IntegerPrimaryKeyIsStoreGenerated(t *testing.T) {
	reg := testRegistry(t)
	s, _ := reg.Get(KindIntegerPrimaryKey)

	spec, _ := s.Lookup(OptGenerated)
	if spec.Default != true {
		t.Error("integer primary key must default generated to true")
	}
	spec, _ = s.Lookup(OptDefault)
	if spec.HasDefault {
		t.Error("integer primary key must not configure a default generator")
	}
	spec, _ = s.Lookup(OptType)
	if spec.Default != "integer" {
		t.Errorf("type default = %v, want integer", spec.Default)
	}
}
