package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

type stubCartRepo struct {
	record  *models.CartRecord
	findErr error

	replaced []models.CartItem
	updated  *models.CartRecord
	created  *models.CartRecord
}

func (s *stubCartRepo) WithTx(*gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindActiveByCustomer(context.Context, uuid.UUID) (*models.CartRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.record, nil
}

func (s *stubCartRepo) FindByIDAndCustomer(_ context.Context, id, _ uuid.UUID) (*models.CartRecord, error) {
	if s.record != nil && s.record.ID == id {
		return s.record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(_ context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.created = record
	s.record = record
	s.findErr = nil
	return record, nil
}

func (s *stubCartRepo) Update(_ context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	s.updated = record
	return record, nil
}

func (s *stubCartRepo) ReplaceItems(_ context.Context, _ uuid.UUID, items []models.CartItem) error {
	s.replaced = items
	return nil
}

func (s *stubCartRepo) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, enums.CartStatus) error {
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
	addons   map[uuid.UUID]models.Addon
	rules    map[uuid.UUID]*models.PricingRule
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[uuid.UUID]*models.Product{},
		addons:   map[uuid.UUID]models.Addon{},
		rules:    map[uuid.UUID]*models.PricingRule{},
	}
}

func (s *stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) FindAddonsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Addon, error) {
	var out []models.Addon
	for _, id := range ids {
		addon, ok := s.addons[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		out = append(out, addon)
	}
	return out, nil
}

func (s *stubCatalog) GetPricingRule(_ context.Context, productID uuid.UUID) (*models.PricingRule, error) {
	return s.rules[productID], nil
}

func newTestService(repo CartRepository, cat productCatalog) Service {
	svc, err := NewService(repo, stubTxRunner{}, cat)
	if err != nil {
		panic(err)
	}
	return svc
}

func strPtr(v string) *string { return &v }

func TestFingerprintMergeRules(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	addonA := uuid.New()
	addonB := uuid.New()

	base := Fingerprint(productID, nil, []uuid.UUID{addonA, addonB}, strPtr("Gefeliciteerd"), nil, nil)

	if got := Fingerprint(productID, nil, []uuid.UUID{addonB, addonA}, strPtr("Gefeliciteerd"), nil, nil); got != base {
		t.Fatal("addon order must not change the fingerprint")
	}
	if got := Fingerprint(productID, nil, []uuid.UUID{addonA, addonB}, strPtr("Beterschap"), nil, nil); got == base {
		t.Fatal("different card message must change the fingerprint")
	}
	variantID := uuid.New()
	if got := Fingerprint(productID, &variantID, []uuid.UUID{addonA, addonB}, strPtr("Gefeliciteerd"), nil, nil); got == base {
		t.Fatal("variant must change the fingerprint")
	}
	if got := Fingerprint(productID, nil, []uuid.UUID{addonA, addonB}, strPtr("Gefeliciteerd"), strPtr("Liefs"), nil); got == base {
		t.Fatal("ribbon text must change the fingerprint")
	}
}

func TestAddItemComputesSubtotal(t *testing.T) {
	t.Parallel()

	cat := newStubCatalog()
	bouquet := &models.Product{ID: uuid.New(), Name: "Boeket Amsterdam", Slug: "boeket-amsterdam", SKU: "BA-01", PriceCents: 1950, IsActive: true}
	tulips := &models.Product{ID: uuid.New(), Name: "Witte tulpen", Slug: "witte-tulpen", SKU: "WT-01", PriceCents: 995, IsActive: true}
	card := models.Addon{ID: uuid.New(), Name: "Kaartje", PriceCents: 150}
	cat.products[bouquet.ID] = bouquet
	cat.products[tulips.ID] = tulips
	cat.addons[card.ID] = card

	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(repo, cat)
	customerID := uuid.New()

	record, err := svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: bouquet.ID,
		Quantity:  1,
		AddonIDs:  []uuid.UUID{card.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.SubtotalCents != 2100 {
		t.Fatalf("expected 2100 after first line, got %d", record.SubtotalCents)
	}

	record, err = svc.AddItem(context.Background(), customerID, AddItemInput{
		ProductID: tulips.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(record.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(record.Items))
	}
	if record.SubtotalCents != 4090 {
		t.Fatalf("expected subtotal 4090, got %d", record.SubtotalCents)
	}
	if got := Subtotal(record.Items); got != 4090 {
		t.Fatalf("expected Subtotal helper to agree, got %d", got)
	}
}

func TestAddItemMergesIdenticalConfiguration(t *testing.T) {
	t.Parallel()

	cat := newStubCatalog()
	bouquet := &models.Product{ID: uuid.New(), Name: "Boeket Amsterdam", Slug: "boeket-amsterdam", PriceCents: 1950, IsActive: true}
	cat.products[bouquet.ID] = bouquet

	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(repo, cat)
	customerID := uuid.New()

	input := AddItemInput{ProductID: bouquet.ID, Quantity: 1, CardMessage: strPtr("Gefeliciteerd")}
	if _, err := svc.AddItem(context.Background(), customerID, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record, err := svc.AddItem(context.Background(), customerID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Items) != 1 || record.Items[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", record.Items)
	}

	// Same product, different personalization: separate line.
	other := input
	other.CardMessage = strPtr("Beterschap")
	record, err = svc.AddItem(context.Background(), customerID, other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected separate line for different message, got %d", len(record.Items))
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	cat := newStubCatalog()
	inactive := &models.Product{ID: uuid.New(), Name: "Oud boeket", Slug: "oud-boeket", PriceCents: 1000, IsActive: false}
	cat.products[inactive.ID] = inactive

	svc := newTestService(&stubCartRepo{findErr: gorm.ErrRecordNotFound}, cat)
	customerID := uuid.New()

	_, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: inactive.ID, Quantity: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	_, err = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}

	_, err = svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: inactive.ID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inactive product, got %v", err)
	}
}

func TestAddItemLimitedDropCapCoversMergedQuantity(t *testing.T) {
	t.Parallel()

	cat := newStubCatalog()
	drop := &models.Product{ID: uuid.New(), Name: "Pioenrozen drop", Slug: "pioenrozen-drop", PriceCents: 2995, IsActive: true}
	cat.products[drop.ID] = drop
	cat.rules[drop.ID] = &models.PricingRule{ProductID: drop.ID, Kind: enums.PricingRuleLimitedDrop, MaxPerOrder: 2}

	svc := newTestService(&stubCartRepo{findErr: gorm.ErrRecordNotFound}, cat)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: drop.ID, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error at cap: %v", err)
	}
	_, err := svc.AddItem(context.Background(), customerID, AddItemInput{ProductID: drop.ID, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected merged quantity above cap to fail, got %v", err)
	}
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	t.Parallel()

	itemID := uuid.New()
	customerID := uuid.New()
	record := &models.CartRecord{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
		Items: []models.CartItem{
			{ID: itemID, ProductID: uuid.New(), UnitPriceCents: 995, Quantity: 1, Fingerprint: "fp"},
		},
	}
	repo := &stubCartRepo{record: record}
	svc := newTestService(repo, newStubCatalog())

	updated, err := svc.UpdateQuantity(context.Background(), customerID, itemID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.SubtotalCents != 2985 {
		t.Fatalf("expected subtotal 2985, got %d", updated.SubtotalCents)
	}

	if _, err := svc.UpdateQuantity(context.Background(), customerID, itemID, 0); err == nil {
		t.Fatal("expected validation error for zero quantity")
	}

	_, err = svc.UpdateQuantity(context.Background(), customerID, uuid.New(), 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown item, got %v", err)
	}

	removed, err := svc.RemoveItem(context.Background(), customerID, itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed.Items) != 0 || removed.SubtotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", removed)
	}
}

func TestClearCartRequiresActiveCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubCartRepo{findErr: gorm.ErrRecordNotFound}, newStubCatalog())

	err := svc.ClearCart(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
