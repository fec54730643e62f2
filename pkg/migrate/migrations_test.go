package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestProductsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TYPE product_type AS ENUM",
		"CREATE TYPE stock_status AS ENUM",
		"CREATE TYPE pricing_rule_kind AS ENUM",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_images",
		"CREATE TABLE IF NOT EXISTS pricing_rules",
		"CREATE TABLE IF NOT EXISTS addons",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pricing_rules_product",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_carts_and_orders.sql")

	checks := []string{
		"CREATE TYPE cart_status AS ENUM",
		"CREATE TYPE order_status AS ENUM",
		"CREATE TABLE IF NOT EXISTS cart_records",
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_line_items",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_number",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_records_customer_active",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "not-a-migration.sql"), []byte("select 1;"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected error for invalid filename")
	}
}
