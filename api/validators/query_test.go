package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

func queryRequest(t *testing.T, rawQuery string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
}

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params, err := ParsePagination(queryRequest(t, ""))
		if err != nil {
			t.Fatalf("ParsePagination: %v", err)
		}
		if params != (pagination.Params{Page: 1, PageSize: pagination.DefaultPageSize}) {
			t.Fatalf("unexpected defaults %+v", params)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		params, err := ParsePagination(queryRequest(t, "page=3&page_size=12"))
		if err != nil {
			t.Fatalf("ParsePagination: %v", err)
		}
		if params != (pagination.Params{Page: 3, PageSize: 12}) {
			t.Fatalf("unexpected params %+v", params)
		}
	})

	t.Run("rejects zero page", func(t *testing.T) {
		if _, err := ParsePagination(queryRequest(t, "page=0")); err == nil {
			t.Fatal("expected error for page=0")
		}
	})

	t.Run("rejects oversized page size", func(t *testing.T) {
		if _, err := ParsePagination(queryRequest(t, "page_size=100000")); err == nil {
			t.Fatal("expected error for oversized page_size")
		}
	})
}

func TestParseQueryIntPtr(t *testing.T) {
	value, err := ParseQueryIntPtr(queryRequest(t, "price_min_cents=1500"), "price_min_cents")
	if err != nil {
		t.Fatalf("ParseQueryIntPtr: %v", err)
	}
	if value == nil || *value != 1500 {
		t.Fatalf("expected 1500, got %v", value)
	}

	value, err = ParseQueryIntPtr(queryRequest(t, ""), "price_min_cents")
	if err != nil || value != nil {
		t.Fatalf("expected nil for absent key, got %v err %v", value, err)
	}

	if _, err := ParseQueryIntPtr(queryRequest(t, "price_min_cents=-1"), "price_min_cents"); err == nil {
		t.Fatal("expected error for negative value")
	}
	if _, err := ParseQueryIntPtr(queryRequest(t, "price_min_cents=duur"), "price_min_cents"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseQueryDate(t *testing.T) {
	date, err := ParseQueryDate(queryRequest(t, "placed_from=2026-08-30"), "placed_from")
	if err != nil {
		t.Fatalf("ParseQueryDate: %v", err)
	}
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if date == nil || !date.Equal(want) {
		t.Fatalf("expected %s, got %v", want, date)
	}

	date, err = ParseQueryDate(queryRequest(t, "placed_from=2026-08-30T14:30:00Z"), "placed_from")
	if err != nil {
		t.Fatalf("ParseQueryDate rfc3339: %v", err)
	}
	if date == nil || date.Hour() != 14 {
		t.Fatalf("expected 14:30 timestamp, got %v", date)
	}

	if _, err := ParseQueryDate(queryRequest(t, "placed_from=30-08-2026"), "placed_from"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestPathUUID(t *testing.T) {
	if _, err := PathUUID("not-a-uuid", "order id"); err == nil {
		t.Fatal("expected error for malformed uuid")
	}
	id, err := PathUUID("  1b4e28ba-2fa1-11d2-883f-0016d3cca427 ", "order id")
	if err != nil {
		t.Fatalf("PathUUID: %v", err)
	}
	if id.String() != "1b4e28ba-2fa1-11d2-883f-0016d3cca427" {
		t.Fatalf("unexpected uuid %s", id)
	}
}
