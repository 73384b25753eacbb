package idhash

import "testing"

func TestComputeLifecycleID(t *testing.T) {
	got := ComputeLifecycleID("WalletA", "MintA", 0, 1704067200)

	if len(got) != 64 {
		t.Errorf("ComputeLifecycleID() length = %d, want 64", len(got))
	}

	// Same inputs produce the same output
	got2 := ComputeLifecycleID("WalletA", "MintA", 0, 1704067200)
	if got != got2 {
		t.Errorf("ComputeLifecycleID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeLifecycleID_DifferentInputs(t *testing.T) {
	base := ComputeLifecycleID("wallet", "mint", 0, 1000)

	if base == ComputeLifecycleID("other", "mint", 0, 1000) {
		t.Error("different wallet should produce different hash")
	}
	if base == ComputeLifecycleID("wallet", "other", 0, 1000) {
		t.Error("different mint should produce different hash")
	}
	if base == ComputeLifecycleID("wallet", "mint", 1, 1000) {
		t.Error("different cycle index should produce different hash")
	}
	if base == ComputeLifecycleID("wallet", "mint", 0, 2000) {
		t.Error("different entry timestamp should produce different hash")
	}
}

func TestComputeSnapshotID(t *testing.T) {
	got := ComputeSnapshotID("WalletA", 1704067200, 42)
	if len(got) != 64 {
		t.Errorf("ComputeSnapshotID() length = %d, want 64", len(got))
	}

	if got != ComputeSnapshotID("WalletA", 1704067200, 42) {
		t.Error("ComputeSnapshotID() not deterministic")
	}
	if got == ComputeSnapshotID("WalletA", 1704067201, 42) {
		t.Error("different analysis timestamp should produce different hash")
	}
}
