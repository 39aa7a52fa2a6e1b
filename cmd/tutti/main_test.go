package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomvp10/tutti-services/internal/admin"
	"github.com/sergiomvp10/tutti-services/internal/domain"
)

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirmer(strings.NewReader("s\nno\n\nYES\n"), &out)

	assert.True(t, confirm("¿Eliminar?"))
	assert.False(t, confirm("¿Eliminar?"))
	assert.False(t, confirm("¿Eliminar?"))
	assert.True(t, confirm("¿Eliminar?"))
	assert.False(t, confirm("¿Eliminar?"), "EOF declines")
	assert.Contains(t, out.String(), "¿Eliminar? [s/N]: ")
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty(" ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", "  "))
}

func TestPrintDashboard(t *testing.T) {
	d := &admin.Dashboard{
		Products: []domain.Product{{ID: 1}, {ID: 2}},
		Orders: []domain.Order{
			{ID: 7, Status: domain.StatusPending, Total: 125000, Customer: domain.GuestCustomer{Name: "Ana"}},
			{ID: 8, Status: domain.StatusPreparing, Total: 9000, Customer: domain.UserCustomer{Name: "Fruver La 30"}},
		},
		Users: []domain.User{{Role: domain.RoleBuyer}, {Role: domain.RoleAdmin}},
	}
	var buf bytes.Buffer
	require.NoError(t, printDashboard(&buf, d))
	out := buf.String()

	assert.Contains(t, out, "Productos    2")
	assert.Contains(t, out, "Compradores  1")
	assert.Contains(t, out, "En Proceso")
	assert.Contains(t, out, "$ 125.000")
	assert.Contains(t, out, "Fruver La 30")
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range adminCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"dashboard", "delete", "cancel", "order-status", "password", "upload"} {
		assert.True(t, names[want], want)
	}
	serve, _, err := rootCmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
}

func TestInitdbRequiresConfirmation(t *testing.T) {
	initdbConfirmed = false
	err := runInitdb(initdbCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
