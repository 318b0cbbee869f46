package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beverage-quiz-service/internal/identity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfgPath := writeFile(t, "config.yaml", "auth:\n  jwt_secret: s3cret\nlogging:\n  level: error\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--config", cfgPath, "--user", "u42", "--name", "Ivan"})
	require.NoError(t, root.Execute())

	user, err := identity.NewResolver("s3cret", false).Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u42", user.UserID)
	assert.Equal(t, "Ivan", user.DisplayName)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfgPath := writeFile(t, "config.yaml", "logging:\n  level: error\n")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--config", cfgPath, "--user", "u42"})
	assert.Error(t, root.Execute())
}

func TestReadCatalogFile(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		{"id": "w1", "name": "Chablis", "category": "Wine", "color": "White", "alcoholPercent": 12.5},
		{"id": "b1", "name": "Pilsner", "category": "Beer"}
	]`)
	items, err := readCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chablis", items[0].Name)
	require.NotNil(t, items[0].AlcoholPercent)
	assert.InDelta(t, 12.5, *items[0].AlcoholPercent, 0.001)

	bad := writeFile(t, "bad.json", `[{"id": "x1", "name": "Nameless category"}]`)
	_, err = readCatalogFile(bad)
	assert.ErrorContains(t, err, "item 0")
}
