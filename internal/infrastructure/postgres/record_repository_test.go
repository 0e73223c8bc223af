package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// escapeLike
// ──────────────────────────────────────────────────────────────────────────────

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// El guion bajo de un PLU no debe matchear "cualquier carácter".
		{"1_A", `1\_A`},
		{"100%", `100\%`},
		{`a\b`, `a\\b`},
		{"12345_ABC", `12345\_ABC`},
		{"sin metacaracteres", "sin metacaracteres"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, escapeLike(tc.in), "entrada %q", tc.in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// buildSearchQuery
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildSearchQuery_SubcadenaLiteral(t *testing.T) {
	query, args, err := buildSearchQuery(repository.SearchFilter{Query: "1_A"})
	require.NoError(t, err)

	assert.Contains(t, query, `ILIKE $1 ESCAPE '\'`,
		"el patrón debe declarar el carácter de escape")
	require.Len(t, args, 1)
	assert.Equal(t, `%1\_A%`, args[0],
		"el guion bajo del query llega escapado: \"1_A\" no debe matchear \"1XA\"")
}

func TestBuildSearchQuery_SinQueryNoFiltraTexto(t *testing.T) {
	query, args, err := buildSearchQuery(repository.SearchFilter{})
	require.NoError(t, err)

	assert.NotContains(t, query, "ILIKE")
	assert.Empty(t, args)
	assert.Contains(t, query, "ORDER BY consecutivo", "orden de inserción")
}

func TestBuildSearchQuery_FiltrosExactos(t *testing.T) {
	query, args, err := buildSearchQuery(repository.SearchFilter{
		Estado:  "Agotado",
		Usuario: "admin",
	})
	require.NoError(t, err)

	assert.Contains(t, query, "estado = $1")
	assert.Contains(t, query, "usuario = $2")
	assert.Equal(t, []interface{}{"Agotado", "admin"}, args)
}
