package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EmptyInputs(t *testing.T) {
	opts := DefaultOptions()

	assert.Empty(t, Extract("", "usucapione", opts))
	assert.Empty(t, Extract("some text", "", opts))
	assert.Empty(t, Extract("   ", "   ", opts))
}

func TestExtract_NoMatch(t *testing.T) {
	assert.Empty(t, Extract("nothing relevant here", "usucapione", DefaultOptions()))
}

func TestExtract_ShortTextNoEllipsis(t *testing.T) {
	got := Extract("la corte dichiara inammissibile il ricorso", "ricorso", DefaultOptions())
	assert.Equal(t, "la corte dichiara inammissibile il <mark>ricorso</mark>", got)
}

func TestExtract_CaseInsensitiveKeepsOriginalCasing(t *testing.T) {
	got := Extract("La Corte di Appello", "corte", DefaultOptions())
	assert.Contains(t, got, "<mark>Corte</mark>")
}

func TestExtract_HighlightsEveryOccurrence(t *testing.T) {
	got := Extract("ricorso accolto, ricorso respinto", "ricorso", DefaultOptions())
	assert.Equal(t, 2, strings.Count(got, "<mark>ricorso</mark>"))
}

func TestExtract_WindowAddsEllipses(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxWindow = 40

	prefix := strings.Repeat("parola ", 30)
	suffix := strings.Repeat("altra ", 30)
	text := prefix + "usucapione" + " " + suffix

	got := Extract(text, "usucapione", opts)
	require.NotEmpty(t, got)
	assert.True(t, strings.HasPrefix(got, opts.Ellipsis))
	assert.True(t, strings.HasSuffix(got, opts.Ellipsis))
	assert.Contains(t, got, "<mark>usucapione</mark>")
	assert.Less(t, len([]rune(got)), len([]rune(text)))
}

func TestExtract_SnapsToWordBoundaries(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxWindow = 20

	text := strings.Repeat("abcdefghij ", 10) + "match " + strings.Repeat("klmnopqrst ", 10)
	got := Extract(text, "match", opts)
	require.NotEmpty(t, got)

	// Strip markers and ellipses; every surviving token must be whole.
	cleaned := strings.NewReplacer("<mark>", "", "</mark>", "", opts.Ellipsis, "").Replace(got)
	for _, word := range strings.Fields(cleaned) {
		assert.Contains(t, []string{"abcdefghij", "match", "klmnopqrst"}, word)
	}
}

func TestExtract_CustomMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.StartSel = "["
	opts.StopSel = "]"

	got := Extract("il ricorso è accolto", "ricorso", opts)
	assert.Contains(t, got, "[ricorso]")
}

func TestExtract_RunesWithWiderLowercaseForms(t *testing.T) {
	// Lowercasing Ⱥ (U+023A) yields ⱥ (U+2C65), which is one byte longer in
	// UTF-8; matching must stay aligned with the original text regardless.
	text := strings.Repeat("Ⱥ", 20) + " usucapione del fondo"

	got := Extract(text, "fondo", DefaultOptions())
	require.NotEmpty(t, got)
	assert.Contains(t, got, "<mark>fondo</mark>")
	assert.Contains(t, got, strings.Repeat("Ⱥ", 20))
}

func TestExtract_RunesWithNarrowerLowercaseForms(t *testing.T) {
	// İ (U+0130) lowercases to a shorter byte sequence; the markers must still
	// land on the matched word, not drift into the preceding runes.
	got := Extract("İstanbul İİ usucapione del fondo", "usucapione", DefaultOptions())
	assert.Equal(t, "İstanbul İİ <mark>usucapione</mark> del fondo", got)
}

func TestExtract_CaseFoldedPhraseMatch(t *testing.T) {
	got := Extract("appello di istanbul", "İSTANBUL", DefaultOptions())
	assert.Equal(t, "appello di <mark>istanbul</mark>", got)
}

func TestExtract_ZeroWindowUsesDefault(t *testing.T) {
	got := Extract("il ricorso è accolto", "ricorso", Options{StartSel: "<b>", StopSel: "</b>", Ellipsis: "..."})
	assert.Equal(t, "il <b>ricorso</b> è accolto", got)
}
