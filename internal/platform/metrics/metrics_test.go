package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 20*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Inc("payslips_generated")
	c.Inc("payslips_generated")
	c.Inc("")

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("expected 3 requests, got %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 || snap["clientErrorsTotal"].(uint64) != 1 {
		t.Fatalf("unexpected error counts: %+v", snap)
	}
	if snap["avgDurationMs"].(float64) != 20 {
		t.Fatalf("expected avg 20ms, got %v", snap["avgDurationMs"])
	}
	counters := snap["counters"].(map[string]uint64)
	if counters["payslips_generated"] != 2 || len(counters) != 1 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}

func TestNilCollectorIncIsNoop(t *testing.T) {
	var c *Collector
	c.Inc("anything")
}
