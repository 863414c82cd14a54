package repository

import "testing"

func TestMigrateMissingMigrationsDir(t *testing.T) {
	err := Migrate("root:password@tcp(127.0.0.1:3306)/classiflow", "does-not-exist")
	if err == nil {
		t.Fatal("expected an error for a missing migrations directory")
	}
}
