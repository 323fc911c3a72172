package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/attrkit/adapters/clock"
	"github.com/artpar/attrkit/adapters/idgen"
	"github.com/artpar/attrkit/app"
	"github.com/artpar/attrkit/core/attribute"
	"github.com/artpar/attrkit/core/resource"
	"github.com/artpar/attrkit/core/schema"
	"github.com/artpar/attrkit/ports"
)

// mockMetrics implements ports.Metrics for testing.
type mockMetrics struct {
	mu       sync.Mutex
	resolved int
	shared   int
	failures int
	compiles int
}

func (m *mockMetrics) ResolvedDefault(resource string, shared bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved++
	if shared {
		m.shared++
	}
}

func (m *mockMetrics) GeneratorFailure(resource, attribute string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *mockMetrics) ResourceCompiled(resource string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compiles++
}

func postResource(t *testing.T, clk ports.Clock) resource.Resource {
	t.Helper()
	reg, err := schema.NewRegistry(
		attribute.Now(clk),
		attribute.UUID(idgen.NewSequential("id-")),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	def := resource.Definition{
		Resource: "post",
		Attributes: []resource.AttributeDef{
			{Name: "id", Kind: schema.KindUUIDPrimaryKey},
			{Name: "title", Options: map[string]any{"type": "string"}},
			{Name: "status", Options: map[string]any{"type": "string", "default": "draft"}},
			{Name: "inserted_at", Kind: schema.KindCreateTimestamp},
			{Name: "updated_at", Kind: schema.KindUpdateTimestamp},
		},
	}
	res, err := resource.Compile(reg, def)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return res
}

func newMaterializer(cfg app.MaterializerConfig) (*app.Materializer, *mockMetrics) {
	metrics := &mockMetrics{}
	return app.NewMaterializer(zerolog.Nop(), metrics, cfg), metrics
}

func TestCreate_FillsDefaultsAndKeepsSuppliedValues(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	res := postResource(t, clk)
	m, metrics := newMaterializer(app.MaterializerConfig{})

	values, err := m.Create(context.Background(), res, attribute.Record{"title": "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if values["title"] != "hello" {
		t.Errorf("supplied value overwritten: %v", values["title"])
	}
	if values["status"] != "draft" {
		t.Errorf("status = %v, want draft", values["status"])
	}
	if values["id"] != "id-1" {
		t.Errorf("id = %v, want id-1", values["id"])
	}
	if values["inserted_at"] != values["updated_at"] {
		t.Errorf("timestamps diverged: %v vs %v", values["inserted_at"], values["updated_at"])
	}

	// id, status, inserted_at, updated_at resolved; the two timestamps
	// went through the shared path.
	if metrics.resolved != 4 {
		t.Errorf("resolved = %d, want 4", metrics.resolved)
	}
	if metrics.shared != 2 {
		t.Errorf("shared = %d, want 2", metrics.shared)
	}
}

func TestCreate_SuppliedValueSkipsDefaultResolution(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	res := postResource(t, clk)
	m, _ := newMaterializer(app.MaterializerConfig{})

	values, err := m.Create(context.Background(), res, attribute.Record{"status": "published"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if values["status"] != "published" {
		t.Errorf("status = %v, want published", values["status"])
	}
}

func TestCreateBatch_PerRecordScopes(t *testing.T) {
	clk := clock.NewStepping(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), time.Millisecond)
	res := postResource(t, clk)
	m, _ := newMaterializer(app.MaterializerConfig{})

	results := m.CreateBatch(context.Background(), res,
		[]attribute.Record{{"title": "one"}, {"title": "two"}})

	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("record %d: %v", r.Index, r.Err)
		}
		if r.Values["inserted_at"] != r.Values["updated_at"] {
			t.Errorf("record %d: timestamps diverged within the record", r.Index)
		}
	}

	// Separate records resolve in separate scopes: their instants may (and
	// with a stepping clock, must) differ.
	if results[0].Values["inserted_at"] == results[1].Values["inserted_at"] {
		t.Error("records shared an instant without batch scope")
	}
}

func TestCreateBatch_BatchScope(t *testing.T) {
	clk := clock.NewStepping(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), time.Millisecond)
	res := postResource(t, clk)
	m, _ := newMaterializer(app.MaterializerConfig{BatchScope: true, Workers: 4})

	records := make([]attribute.Record, 8)
	for i := range records {
		records[i] = attribute.Record{"title": "post"}
	}
	results := m.CreateBatch(context.Background(), res, records)

	first := results[0].Values["inserted_at"]
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("record %d: %v", r.Index, r.Err)
		}
		if r.Values["inserted_at"] != first || r.Values["updated_at"] != first {
			t.Errorf("record %d: instant %v differs from batch instant %v",
				r.Index, r.Values["inserted_at"], first)
		}
	}
}

func TestCreateBatch_PerRecordFailures(t *testing.T) {
	boom := errors.New("generator broke")
	calls := 0
	flaky := attribute.Generator(func() (any, error) {
		calls++
		if calls > 1 {
			return nil, boom
		}
		return "ok", nil
	})

	res := resource.Resource{
		Name: "post",
		Attributes: []attribute.Attribute{
			{Name: "token", Default: attribute.FromGenerator(flaky)},
		},
	}

	m, metrics := newMaterializer(app.MaterializerConfig{})
	results := m.CreateBatch(context.Background(), res,
		[]attribute.Record{{}, {}, {}})

	if results[0].Err != nil {
		t.Errorf("record 0 failed: %v", results[0].Err)
	}
	if results[0].Values["token"] != "ok" {
		t.Errorf("record 0 token = %v", results[0].Values["token"])
	}
	for _, r := range results[1:] {
		if !errors.Is(r.Err, boom) {
			t.Errorf("record %d: err = %v, want generator failure", r.Index, r.Err)
		}
		if r.Values != nil {
			t.Errorf("record %d: values present despite failure", r.Index)
		}
	}
	if metrics.failures != 2 {
		t.Errorf("failures = %d, want 2", metrics.failures)
	}
}

func TestUpdateBatch_StampsAndPriorRecordGenerators(t *testing.T) {
	prior := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewStepping(prior.Add(time.Minute), time.Second)
	res := postResource(t, clk)

	// Add a revision attribute driven by the prior record.
	res.Attributes = append(res.Attributes, attribute.Attribute{
		Name: "revision",
		Type: "integer",
		UpdateDefault: attribute.FromUpdateGenerator(func(p attribute.Record) (any, error) {
			return p["revision"].(int) + 1, nil
		}),
	})

	m, _ := newMaterializer(app.MaterializerConfig{})

	priors := []attribute.Record{{
		"updated_at": prior,
		"revision":   3,
	}}
	// Nothing changed; the update stamp still applies.
	results := m.UpdateBatch(context.Background(), res, []attribute.Record{{}}, priors)

	r := results[0]
	if r.Err != nil {
		t.Fatalf("update: %v", r.Err)
	}

	stamped, ok := r.Values["updated_at"].(time.Time)
	if !ok {
		t.Fatalf("updated_at = %T, want time.Time", r.Values["updated_at"])
	}
	if stamped.Before(prior) {
		t.Errorf("stamp %v precedes prior %v", stamped, prior)
	}
	if r.Values["revision"] != 4 {
		t.Errorf("revision = %v, want 4", r.Values["revision"])
	}
	// Create defaults must not fire on update.
	if _, ok := r.Values["id"]; ok {
		t.Error("create default resolved during update")
	}
}

func TestCreateBatch_CancelledContext(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	res := postResource(t, clk)
	m, _ := newMaterializer(app.MaterializerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := m.CreateBatch(ctx, res, []attribute.Record{{}})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", results[0].Err)
	}
}
