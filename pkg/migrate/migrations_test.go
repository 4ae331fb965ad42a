package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func TestUsersMigrationEnforcesCaseInsensitiveUniqueness(t *testing.T) {
	content := readMigration(t, "*_create_users.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"ON users (lower(username))",
		"ON users (lower(email))",
		"CHECK (role IN ('USER', 'ADMIN'))",
		"DROP TABLE IF EXISTS users",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationsEnforceOwnershipConstraints(t *testing.T) {
	carts := readMigration(t, "*_create_carts.sql")
	if !strings.Contains(carts, "CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_id ON carts (user_id)") {
		t.Error("carts migration must keep the one-cart-per-user unique index")
	}

	items := readMigration(t, "*_create_cart_items.sql")
	checks := []string{
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items (cart_id, product_id)",
		"CHECK (quantity >= 1)",
	}
	for _, sub := range checks {
		if !strings.Contains(items, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
