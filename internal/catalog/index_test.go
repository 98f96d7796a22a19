package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func cementVendors() []VendorRecord {
	return []VendorRecord{
		{ID: "A", Name: "Anand Traders", Materials: []MaterialEntry{
			{Category: "Cement", Name: "Cement", UnitPrice: price("350"), Unit: "bag"},
			{Category: "Steel", Name: "TMT Steel", UnitPrice: price("66"), Unit: "kg"},
		}},
		{ID: "B", Name: "Balaji Supplies", Materials: []MaterialEntry{
			{Category: "Cement", Name: "Cement", UnitPrice: price("330"), Unit: "bag"},
		}},
		{ID: "C", Name: "City Hardware", Materials: []MaterialEntry{
			{Category: "Cement", Name: "Cement", UnitPrice: price("360"), Unit: "bag"},
			{Category: "Aggregates", Name: "Sand", UnitPrice: price("45"), Unit: "cft"},
		}},
	}
}

func TestBuild_CementMinPriceAndVendorOrder(t *testing.T) {
	items := Build(cementVendors())

	var cement *CatalogItem
	for i := range items {
		if items[i].Key == Key("Cement", "Cement") {
			cement = &items[i]
		}
	}
	if cement == nil {
		t.Fatal("expected cement item")
	}
	if !cement.MinPrice.Equal(price("330")) {
		t.Fatalf("expected min price 330, got %s", cement.MinPrice)
	}
	want := []string{"B", "A", "C"}
	if len(cement.Vendors) != len(want) {
		t.Fatalf("expected %d offers, got %d", len(want), len(cement.Vendors))
	}
	for i, id := range want {
		if cement.Vendors[i].VendorID != id {
			t.Fatalf("offer %d: expected vendor %s, got %s", i, id, cement.Vendors[i].VendorID)
		}
	}
	if cement.Unit != "bag" || cement.UnitConflict {
		t.Fatalf("unexpected unit state %q conflict=%v", cement.Unit, cement.UnitConflict)
	}
}

func TestBuild_MinPriceMatchesOffersAndAscending(t *testing.T) {
	for _, item := range Build(cementVendors()) {
		min := item.Vendors[0].UnitPrice
		for i, offer := range item.Vendors {
			if offer.UnitPrice.LessThan(min) {
				min = offer.UnitPrice
			}
			if i > 0 && offer.UnitPrice.LessThan(item.Vendors[i-1].UnitPrice) {
				t.Fatalf("%s: offers not ascending at %d", item.Key, i)
			}
		}
		if !item.MinPrice.Equal(min) {
			t.Fatalf("%s: min price %s != %s", item.Key, item.MinPrice, min)
		}
	}
}

func TestBuild_StableTiesKeepVendorOrder(t *testing.T) {
	items := Build([]VendorRecord{
		{ID: "v1", Materials: []MaterialEntry{{Category: "Bricks", Name: "Red Brick", UnitPrice: price("8")}}},
		{ID: "v2", Materials: []MaterialEntry{{Category: "Bricks", Name: "Red Brick", UnitPrice: price("7")}}},
		{ID: "v3", Materials: []MaterialEntry{{Category: "Bricks", Name: "Red Brick", UnitPrice: price("8")}}},
	})
	got := []string{items[0].Vendors[0].VendorID, items[0].Vendors[1].VendorID, items[0].Vendors[2].VendorID}
	if got[0] != "v2" || got[1] != "v1" || got[2] != "v3" {
		t.Fatalf("unexpected offer order %v", got)
	}
}

func TestBuild_SortsByNameThenCategory(t *testing.T) {
	items := Build([]VendorRecord{
		{ID: "v1", Materials: []MaterialEntry{
			{Category: "Steel", Name: "Wire", UnitPrice: price("90")},
			{Category: "Electrical", Name: "Wire", UnitPrice: price("40")},
			{Category: "Cement", Name: "Cement", UnitPrice: price("340")},
		}},
	})
	want := []string{Key("Cement", "Cement"), Key("Electrical", "Wire"), Key("Steel", "Wire")}
	for i, key := range want {
		if items[i].Key != key {
			t.Fatalf("position %d: expected %s, got %s", i, key, items[i].Key)
		}
	}
}

func TestBuild_UnitConflictKeepsLastUnit(t *testing.T) {
	items := Build([]VendorRecord{
		{ID: "v1", Materials: []MaterialEntry{{Category: "Aggregates", Name: "Sand", UnitPrice: price("45"), Unit: "cft"}}},
		{ID: "v2", Materials: []MaterialEntry{{Category: "Aggregates", Name: "Sand", UnitPrice: price("1200"), Unit: "ton"}}},
		{ID: "v3", Materials: []MaterialEntry{{Category: "Aggregates", Name: "Sand", UnitPrice: price("50")}}},
	})
	if items[0].Unit != "ton" {
		t.Fatalf("expected last non-empty unit ton, got %q", items[0].Unit)
	}
	if !items[0].UnitConflict {
		t.Fatal("expected unit conflict flag")
	}
}

func TestBuild_Empty(t *testing.T) {
	if items := Build(nil); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCoerce_DropsInvalidEntries(t *testing.T) {
	vendors, dropped := Coerce([]VendorRecord{
		{ID: "  ", Materials: []MaterialEntry{{Name: "Cement", UnitPrice: price("1")}}},
		{ID: " v1 ", Name: " Vendor One ", Materials: []MaterialEntry{
			{Category: " Cement ", Name: " OPC 53 ", UnitPrice: price("360"), Unit: " bag "},
			{Category: "Cement", Name: "   ", UnitPrice: price("300")},
			{Category: "Cement", Name: "PPC", UnitPrice: price("-1")},
			{Category: "Cement", Name: "Free Sample", UnitPrice: price("0")},
		}},
	})
	if dropped != 3 {
		t.Fatalf("expected 3 dropped entries, got %d", dropped)
	}
	if len(vendors) != 1 {
		t.Fatalf("expected 1 vendor, got %d", len(vendors))
	}
	v := vendors[0]
	if v.ID != "v1" || v.Name != "Vendor One" {
		t.Fatalf("vendor not trimmed: %+v", v)
	}
	if len(v.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(v.Materials))
	}
	if m := v.Materials[0]; m.Name != "OPC 53" || m.Category != "Cement" || m.Unit != "bag" {
		t.Fatalf("material not trimmed: %+v", m)
	}
}

func TestCatalogItemOffer(t *testing.T) {
	items := Build(cementVendors())
	var cement CatalogItem
	for _, item := range items {
		if item.Name == "Cement" {
			cement = item
		}
	}
	offer, ok := cement.Offer("C")
	if !ok || !offer.UnitPrice.Equal(price("360")) {
		t.Fatalf("unexpected offer %+v ok=%v", offer, ok)
	}
	if _, ok := cement.Offer("Z"); ok {
		t.Fatal("expected missing offer for unknown vendor")
	}
}
