package catalog

import (
	"context"
	"math"
	"testing"
)

func TestPostgresStore_GetProductOutOfRangeIsNotFound(t *testing.T) {
	// No connection: ids outside the SERIAL range must be answered without a query.
	s := NewPostgresStore(nil)

	above := math.MaxInt32
	above++
	for _, id := range []int{0, -1, above} {
		p, ok, err := s.GetProduct(context.Background(), id)
		if err != nil || ok {
			t.Fatalf("GetProduct(%d) = %+v ok=%v err=%v", id, p, ok, err)
		}
	}
}

func TestExcludedAssignments(t *testing.T) {
	got := excludedAssignments([]string{"name", "phone"})
	if want := "name = EXCLUDED.name, phone = EXCLUDED.phone"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
