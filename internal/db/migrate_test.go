package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/mg?sslmode=disable", MigrationURL("postgres://u:p@localhost:5432/mg?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/mg", MigrationURL("postgresql://localhost/mg"))
	assert.Equal(t, "pgx5://localhost/mg", MigrationURL("pgx5://localhost/mg"))
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)
}
