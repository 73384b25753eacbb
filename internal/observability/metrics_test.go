package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordExcessSellDrops(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.ExcessSellsDropped)

	RecordExcessSellDrops(3)
	RecordExcessSellDrops(0)
	RecordExcessSellDrops(-1)

	got := testutil.ToFloat64(DefaultMetrics.ExcessSellsDropped) - before
	if got != 3 {
		t.Errorf("counter advanced by %v, want 3", got)
	}
}

func TestRecordSnapshotPersisted(t *testing.T) {
	persistedBefore := testutil.ToFloat64(DefaultMetrics.SnapshotsPersisted)
	duplicatedBefore := testutil.ToFloat64(DefaultMetrics.SnapshotsDuplicated)

	RecordSnapshotPersisted(false)
	RecordSnapshotPersisted(true)
	RecordSnapshotPersisted(true)

	if got := testutil.ToFloat64(DefaultMetrics.SnapshotsPersisted) - persistedBefore; got != 1 {
		t.Errorf("persisted advanced by %v, want 1", got)
	}
	if got := testutil.ToFloat64(DefaultMetrics.SnapshotsDuplicated) - duplicatedBefore; got != 2 {
		t.Errorf("duplicated advanced by %v, want 2", got)
	}
}
