package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/middleware"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/cart"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
)

type stubCart struct {
	lastCustomer uuid.UUID
	lastAdd      cart.AddItemInput
	lastItemID   uuid.UUID
	lastQuantity int
	cleared      bool
}

func (s *stubCart) GetActiveCart(_ context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	s.lastCustomer = customerID
	return &models.CartRecord{}, nil
}

func (s *stubCart) AddItem(_ context.Context, customerID uuid.UUID, input cart.AddItemInput) (*models.CartRecord, error) {
	s.lastCustomer = customerID
	s.lastAdd = input
	return &models.CartRecord{}, nil
}

func (s *stubCart) UpdateQuantity(_ context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	s.lastCustomer = customerID
	s.lastItemID = itemID
	s.lastQuantity = quantity
	return &models.CartRecord{}, nil
}

func (s *stubCart) RemoveItem(_ context.Context, customerID, itemID uuid.UUID) (*models.CartRecord, error) {
	s.lastCustomer = customerID
	s.lastItemID = itemID
	return &models.CartRecord{}, nil
}

func (s *stubCart) ClearCart(_ context.Context, customerID uuid.UUID) error {
	s.lastCustomer = customerID
	s.cleared = true
	return nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestAddCartItem(t *testing.T) {
	logg := discardLogger()
	customerID := uuid.New()
	productID := uuid.New()
	addonID := uuid.New()

	t.Run("rejects missing user context", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		AddCartItem(&stubCart{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", rec.Code)
		}
	})

	t.Run("rejects oversized card message", func(t *testing.T) {
		long := strings.Repeat("x", 301)
		body := `{"product_id":"` + productID.String() + `","quantity":1,"card_message":"` + long + `"}`
		req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, customerID)
		rec := httptest.NewRecorder()
		AddCartItem(&stubCart{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for long card message, got %d", rec.Code)
		}
	})

	t.Run("success converts payload", func(t *testing.T) {
		stub := &stubCart{}
		body := `{"product_id":"` + productID.String() + `","quantity":2,"addon_ids":["` + addonID.String() + `"],"ribbon_text":"Gefeliciteerd"}`
		req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, customerID)
		rec := httptest.NewRecorder()
		AddCartItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastCustomer != customerID {
			t.Fatalf("expected customer %s, got %s", customerID, stub.lastCustomer)
		}
		if stub.lastAdd.ProductID != productID || stub.lastAdd.Quantity != 2 {
			t.Fatalf("unexpected add input %+v", stub.lastAdd)
		}
		if len(stub.lastAdd.AddonIDs) != 1 || stub.lastAdd.AddonIDs[0] != addonID {
			t.Fatalf("unexpected addon ids %v", stub.lastAdd.AddonIDs)
		}
		if stub.lastAdd.RibbonText == nil || *stub.lastAdd.RibbonText != "Gefeliciteerd" {
			t.Fatalf("unexpected ribbon text %v", stub.lastAdd.RibbonText)
		}
	})
}

func TestUpdateCartItemQuantity(t *testing.T) {
	logg := discardLogger()
	customerID := uuid.New()
	itemID := uuid.New()

	withItemParam := func(req *http.Request, value string) *http.Request {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("itemID", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}

	t.Run("rejects malformed item id", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/v1/cart/items/bad", `{"quantity":2}`, customerID)
		req = withItemParam(req, "bad")
		rec := httptest.NewRecorder()
		UpdateCartItemQuantity(&stubCart{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad item id, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCart{}
		req := authedRequest(http.MethodPatch, "/api/v1/cart/items/"+itemID.String(), `{"quantity":4}`, customerID)
		req = withItemParam(req, itemID.String())
		rec := httptest.NewRecorder()
		UpdateCartItemQuantity(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastItemID != itemID || stub.lastQuantity != 4 {
			t.Fatalf("unexpected update %s qty %d", stub.lastItemID, stub.lastQuantity)
		}
	})
}

func TestClearCart(t *testing.T) {
	logg := discardLogger()
	stub := &stubCart{}
	req := authedRequest(http.MethodDelete, "/api/v1/cart/", "", uuid.New())
	rec := httptest.NewRecorder()
	ClearCart(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !stub.cleared {
		t.Fatal("expected cart cleared")
	}
}
