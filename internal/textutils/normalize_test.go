package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Catégorie", "categorie"},
		{"  L1 A  ", "l1 a"},
		{"Génie – Civil", "genie - civil"},
		{"Génie — Civil", "genie - civil"},
		{"MÉMOIRE", "memoire"},
		{"Projet   tutoré", "projet tutore"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Stage", " stage "))
	assert.True(t, Equal("Mémoire", "Memoire"))
	assert.False(t, Equal("L1A", "L1B"))
}

func TestStripDiacriticsKeepsCase(t *testing.T) {
	assert.Equal(t, "Categorie", StripDiacritics("Catégorie"))
	assert.Equal(t, "Eleve", StripDiacritics("Élève"))
}

func TestCanonicalHeader(t *testing.T) {
	cats := []string{"Categorie"}
	assert.Equal(t, "Categorie", CanonicalHeader(" Catégorie ", cats))
	assert.Equal(t, "Categorie", CanonicalHeader("Categorie", cats))
	assert.Equal(t, "Montant", CanonicalHeader(" Montant", cats))
	// Non-category headers keep their accents.
	assert.Equal(t, "Désignation", CanonicalHeader("Désignation ", cats))
}
