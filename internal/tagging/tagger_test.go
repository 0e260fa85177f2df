package tagging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTagger() *Tagger {
	return NewTagger(
		[]string{"Verona", "Milano", "Roma", "Reggio Emilia"},
		[]string{"sentenza", "tribunale", "della"},
	)
}

func TestCities_MatchesFilenameSubstring(t *testing.T) {
	tagger := testTagger()

	cities := tagger.Cities("Sentenza Tribunale di Verona 2024.pdf")
	assert.Equal(t, []string{"Verona"}, cities)
}

func TestCities_CaseInsensitive(t *testing.T) {
	tagger := testTagger()

	cities := tagger.Cities("ordinanza VERONA appello milano.pdf")
	assert.ElementsMatch(t, []string{"Verona", "Milano"}, cities)
}

func TestCities_MultiWordCity(t *testing.T) {
	tagger := testTagger()

	cities := tagger.Cities("Decreto Reggio Emilia 12-2023.pdf")
	assert.Equal(t, []string{"Reggio Emilia"}, cities)
}

func TestCities_NoMatchNeverNil(t *testing.T) {
	tagger := testTagger()

	cities := tagger.Cities("ricorso generico.pdf")
	require.NotNil(t, cities)
	assert.Empty(t, cities)

	cities = tagger.Cities("   ")
	require.NotNil(t, cities)
	assert.Empty(t, cities)
}

func TestCities_Deduplicated(t *testing.T) {
	tagger := NewTagger([]string{"Verona", "verona"}, nil)

	cities := tagger.Cities("verona verona verona.pdf")
	assert.Len(t, cities, 1)
}

func TestKeywords_FiltersStopwordsAndShortTokens(t *testing.T) {
	tagger := testTagger()

	keywords := tagger.Keywords("Sentenza della corte di appello 2024.pdf")
	assert.Equal(t, []string{"corte", "appello", "2024"}, keywords)
}

func TestKeywords_Deduplicated(t *testing.T) {
	tagger := testTagger()

	keywords := tagger.Keywords("appello appello APPELLO.pdf")
	assert.Equal(t, []string{"appello"}, keywords)
}

func TestKeywords_CappedAtTen(t *testing.T) {
	tagger := NewTagger(nil, nil)

	keywords := tagger.Keywords("alpha bravo charlie delta echoes foxtrot golfy hotel indiana juliet kilos limas.pdf")
	assert.Len(t, keywords, maxKeywordSeeds)
}

func TestKeywords_AccentedTokensSurviveTokenization(t *testing.T) {
	tagger := NewTagger(nil, nil)

	keywords := tagger.Keywords("società fallimento.pdf")
	assert.Contains(t, keywords, "società")
}

func TestLoadCities_FileOverridesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.txt")
	content := "# seats\nVerona\n\nVicenza\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cities := LoadCities(path)
	assert.Equal(t, []string{"Verona", "Vicenza"}, cities)
}

func TestLoadCities_FallsBackToDefault(t *testing.T) {
	cities := LoadCities("")
	assert.Equal(t, DefaultCities(), cities)

	cities = LoadCities(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, DefaultCities(), cities)
}

func TestDefaultCities_ContainsCourtSeats(t *testing.T) {
	cities := DefaultCities()
	assert.Contains(t, cities, "Verona")
	assert.Contains(t, cities, "Milano")
	assert.Contains(t, cities, "Roma")
}
