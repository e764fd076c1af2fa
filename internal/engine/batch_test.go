package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

func TestValidateBatch(t *testing.T) {
	s := testSchema(t, []schema.ColumnDefinition{
		{Position: 0, Name: "v_code", Type: schema.TypeText, Nullable: false},
	}, schema.FileFormat{Delimiter: "~"})

	files := map[string][]string{
		"a.dat": {"A1", "A2"},
		"b.dat": {""},
		"c.dat": {"C1"},
	}
	read := func(path, encoding string) ([]string, error) {
		lines, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		return lines, nil
	}

	jobs := []FileJob{
		{Path: "a.dat", Schema: s},
		{Path: "missing.dat", Schema: s},
		{Path: "b.dat", Schema: s},
		{Path: "c.dat", Schema: s},
	}

	outcomes := ValidateBatch(context.Background(), jobs, 2, read)
	if len(outcomes) != len(jobs) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(jobs))
	}

	// Outcomes come back in job order regardless of worker scheduling.
	for i, out := range outcomes {
		if out.Job.Path != jobs[i].Path {
			t.Errorf("outcomes[%d].Job.Path = %q, want %q", i, out.Job.Path, jobs[i].Path)
		}
	}

	if outcomes[0].Err != nil || outcomes[0].Result == nil {
		t.Fatalf("a.dat: %+v", outcomes[0])
	}
	if outcomes[0].Result.ValidCount() != 2 {
		t.Errorf("a.dat ValidCount = %d, want 2", outcomes[0].Result.ValidCount())
	}

	if outcomes[1].Err == nil || outcomes[1].Result != nil {
		t.Errorf("missing.dat should fail without a result: %+v", outcomes[1])
	}

	if outcomes[2].Result == nil || outcomes[2].Result.TotalRecords != 0 {
		t.Errorf("b.dat: %+v", outcomes[2])
	}
	if outcomes[3].Result == nil || outcomes[3].Result.ValidCount() != 1 {
		t.Errorf("c.dat: %+v", outcomes[3])
	}
}

func TestValidateBatchNoJobs(t *testing.T) {
	outcomes := ValidateBatch(context.Background(), nil, 4, func(string, string) ([]string, error) {
		t.Fatal("read should not be called")
		return nil, nil
	})
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes, want 0", len(outcomes))
	}
}

func TestValidateBatchZeroWorkersUsesDefault(t *testing.T) {
	s := testSchema(t, []schema.ColumnDefinition{
		{Position: 0, Name: "v_code", Type: schema.TypeText, Nullable: false},
	}, schema.FileFormat{Delimiter: "~"})

	jobs := []FileJob{{Path: "x.dat", Schema: s}}
	outcomes := ValidateBatch(context.Background(), jobs, 0, func(string, string) ([]string, error) {
		return []string{"X"}, nil
	})
	if len(outcomes) != 1 || outcomes[0].Result == nil {
		t.Fatalf("outcomes = %+v", outcomes)
	}
}

func TestValidateBatchCancelledContext(t *testing.T) {
	s := testSchema(t, []schema.ColumnDefinition{
		{Position: 0, Name: "v_code", Type: schema.TypeText, Nullable: false},
	}, schema.FileFormat{Delimiter: "~"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []FileJob{
		{Path: "a.dat", Schema: s},
		{Path: "b.dat", Schema: s},
	}
	outcomes := ValidateBatch(ctx, jobs, 2, func(string, string) ([]string, error) {
		return []string{"X"}, nil
	})

	for i, out := range outcomes {
		if !errors.Is(out.Err, context.Canceled) {
			t.Errorf("outcomes[%d].Err = %v, want context.Canceled", i, out.Err)
		}
		if out.Result != nil {
			t.Errorf("outcomes[%d] has a result despite cancellation", i)
		}
	}
}
