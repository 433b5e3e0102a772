package answers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/randutil"
)

func TestDefaultDatabase(t *testing.T) {
	db := Default()
	assert.Greater(t, db.Size(), 300)
	assert.Equal(t, []string{"ANIMAL", "COUNTRY", "FRUIT", "NAME", "OBJECT"}, db.Categories())

	for l := 'A'; l <= 'Z'; l++ {
		for _, w := range db.Lookup(string(l), "ANIMAL") {
			assert.True(t, strings.HasPrefix(strings.ToUpper(w), string(l)), "%s under %c", w, l)
		}
	}
}

func TestContainsIsCaseAndSpaceInsensitive(t *testing.T) {
	db := Default()
	assert.True(t, db.Contains("M", "FRUIT", "Mango"))
	assert.True(t, db.Contains("m", "fruit", "  mANGO "))
	assert.False(t, db.Contains("M", "ANIMAL", "Mango"))
	assert.False(t, db.Contains("B", "FRUIT", "Mango"))
}

func TestRandomDrawsFromList(t *testing.T) {
	db := Default()
	rng := randutil.New(1)
	for i := 0; i < 20; i++ {
		w := db.Random(rng, "B", "OBJECT")
		assert.Contains(t, db.Lookup("B", "OBJECT"), w)
	}
	assert.Equal(t, "", db.Random(rng, "X", "COUNTRY"))
	assert.Equal(t, "", db.Random(rng, "B", "PLANET"))
}

func TestParseRejectsMisfiledWords(t *testing.T) {
	_, err := Parse([]byte(`{"A": {"ANIMAL": ["Bear"]}}`))
	require.Error(t, err)

	_, err = Parse([]byte(`{"AB": {"ANIMAL": ["Ant"]}}`))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	db, err := Load(strings.NewReader(`{"q": {"animal": ["Quail", " "]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Quail"}, db.Lookup("Q", "ANIMAL"))
	assert.True(t, db.Contains("Q", "Animal", "quail"))
}
