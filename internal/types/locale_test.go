//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    Locale
		wantErr bool
	}{
		{in: "", want: LocaleES},
		{in: "es", want: LocaleES},
		{in: "EN", want: LocaleEN},
		{in: " en ", want: LocaleEN},
		{in: "pt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocale(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocale_Other(t *testing.T) {
	assert.Equal(t, LocaleEN, LocaleES.Other())
	assert.Equal(t, LocaleES, LocaleEN.Other())
}

func TestIsPresentMarker(t *testing.T) {
	for _, s := range []string{"Present", "present", "Actualidad", " Presente "} {
		assert.True(t, IsPresentMarker(s), s)
	}
	assert.False(t, IsPresentMarker("December 2021"))
	assert.False(t, IsPresentMarker(""))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Experiencia", Label(LocaleES, "experience"))
	assert.Equal(t, "Technical Skills", Label(LocaleEN, "skills"))
	assert.Equal(t, "unknownKey", Label(LocaleEN, "unknownKey"))
}

func TestLocalized(t *testing.T) {
	l := Localized[string]{LocaleES: "hola"}
	assert.True(t, l.Has(LocaleES))
	assert.False(t, l.Complete())
	assert.Equal(t, []Locale{LocaleEN}, l.Missing())
	assert.Equal(t, "", l.Get(LocaleEN))

	full := NewLocalized("hola", "hello")
	assert.True(t, full.Complete())
	assert.Empty(t, full.Missing())
}

func TestLocalized_CloneIsIndependent(t *testing.T) {
	orig := NewLocalized([]string{"a"}, []string{"b"})
	clone := orig.Clone(CloneStrings)
	clone[LocaleES][0] = "changed"

	assert.Equal(t, "a", orig[LocaleES][0])
}
