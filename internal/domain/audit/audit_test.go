package audit

import (
	"strings"
	"testing"
)

func TestBuildBaseQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{EntityType: "invoice", ActorID: "admin-1"})
	if !strings.Contains(query, "entity_type = $1") || !strings.Contains(query, "actor_id = $2") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "invoice" || args[1] != "admin-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildBaseQueryWithoutFilter(t *testing.T) {
	query, args := buildBaseQuery("SELECT id", Filter{})
	if strings.Contains(query, "$") || len(args) != 0 {
		t.Fatalf("expected no placeholders, got %s %v", query, args)
	}
}

func TestMarshalSnapshotNil(t *testing.T) {
	payload, err := marshalSnapshot(nil)
	if err != nil || payload != nil {
		t.Fatalf("expected nil payload, got %s %v", payload, err)
	}
	payload, err = marshalSnapshot(map[string]string{"status": "paid"})
	if err != nil || string(payload) != `{"status":"paid"}` {
		t.Fatalf("unexpected payload %s %v", payload, err)
	}
}
