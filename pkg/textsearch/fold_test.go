package textsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Restaurante-api/pkg/textsearch"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "panaderia", textsearch.Fold("Panadería"))
	assert.Equal(t, "jamon serrano", textsearch.Fold("  JAMÓN Serrano "))
	assert.Equal(t, "nandu", textsearch.Fold("Ñandú"))
}

func TestMatcher(t *testing.T) {
	m := textsearch.NewMatcher("distribuidora lopez")
	assert.True(t, m.Match("", "Distribuidora López S.A.S"))
	assert.False(t, m.Match("Harina", "Molinos del Sur"))

	empty := textsearch.NewMatcher("   ")
	assert.True(t, empty.Empty())
	assert.True(t, empty.Match("cualquier cosa"))
}
