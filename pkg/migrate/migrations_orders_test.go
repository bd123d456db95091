package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBooksMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_books.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS books",
		"FOREIGN KEY (vendor_id) REFERENCES vendors(id) ON DELETE CASCADE",
		"CHECK (stock_quantity >= 0)",
		"CHECK (price_cents >= 0)",
		"DROP TABLE IF EXISTS books",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (total_cents = subtotal_cents + shipping_cents + tax_cents)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_order_number",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLineItemsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_order_line_items.sql")

	checks := []string{
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"CHECK (total_cents = quantity * unit_price_cents)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
