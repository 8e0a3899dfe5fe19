package enums

import "testing"

func TestPointsTransactionTypeIsValid(t *testing.T) {
	for _, typ := range validPointsTransactionTypes {
		if !typ.IsValid() {
			t.Fatalf("expected %q to be valid", typ)
		}
	}
	if PointsTransactionType("cashback").IsValid() {
		t.Fatal("unknown type should not be valid")
	}
}

func TestParsePointsTransactionType(t *testing.T) {
	typ, err := ParsePointsTransactionType("bulk_admin_adjustment")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if typ != PointsTxBulkAdminAdjustment {
		t.Fatalf("unexpected type %q", typ)
	}

	if _, err := ParsePointsTransactionType("not_real"); err == nil {
		t.Fatal("expected parse error for unknown type")
	}
}

func TestParseMixStatus(t *testing.T) {
	status, err := ParseMixStatus("favorite")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if status != MixStatusFavorite {
		t.Fatalf("unexpected status %q", status)
	}
	if _, err := ParseMixStatus("archived"); err == nil {
		t.Fatal("expected parse error for unknown status")
	}
}
