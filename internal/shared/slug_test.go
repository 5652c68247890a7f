package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"plain", []string{"Jazz Night"}, "jazz-night"},
		{"diacritics stripped", []string{"Fiesta de São João"}, "fiesta-de-sao-joao"},
		{"multiple parts joined", []string{"MUSIC", "Jazz Night", "2026-03-14"}, "music-jazz-night-2026-03-14"},
		{"punctuation collapsed", []string{"¡Hola, Mundo!"}, "hola-mundo"},
		{"empty parts skipped", []string{"", "Colón"}, "colon"},
		{"repeated separators", []string{"a  --  b"}, "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.Slugify(tt.parts...))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	first := shared.Slugify("MUSIC", "Noche de Tango", "2026-07-01")
	second := shared.Slugify("MUSIC", "Noche de Tango", "2026-07-01")
	assert.Equal(t, first, second)
}

func TestPageRequestNormalize(t *testing.T) {
	norm := shared.PageRequest{}.Normalize()
	assert.Equal(t, 1, norm.Page)
	assert.Equal(t, shared.DefaultPerPage, norm.PerPage)

	capped := shared.PageRequest{Page: 3, PerPage: 500}.Normalize()
	assert.Equal(t, shared.MaxPerPage, capped.PerPage)
	assert.Equal(t, 200, capped.Offset())
}
