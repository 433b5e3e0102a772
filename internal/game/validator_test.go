package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(curated("B|ANIMAL|bear", "B|FRUIT|banana"))

	tests := []struct {
		name     string
		category Category
		text     string
		want     Verdict
	}{
		{"blank", "ANIMAL", "", Invalid},
		{"whitespace", "ANIMAL", "   ", Invalid},
		{"wrong letter", "ANIMAL", "Cat", Invalid},
		{"too short", "ANIMAL", "B", Invalid},
		{"curated", "ANIMAL", "Bear", Valid},
		{"curated case and spaces", "FRUIT", "  bANANA ", Valid},
		{"curated in other category", "ANIMAL", "Banana", Unknown},
		{"lowercase first letter", "OBJECT", "ball", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check('B', tt.category, tt.text))
		})
	}
}

func TestValidatorWithoutCurated(t *testing.T) {
	v := NewValidator(nil)
	assert.Equal(t, Unknown, v.Check('M', "FRUIT", "Mango"))
}

func TestVerdictsConfirmOnce(t *testing.T) {
	c := NewVerdicts(NewValidator(nil), 'Z')

	assert.Equal(t, Unknown, c.Verdict("ANIMAL", "Zebra"))
	assert.True(t, c.Confirm("ANIMAL", "Zebra", true))
	assert.Equal(t, Valid, c.Verdict("ANIMAL", " zebra "))

	// A second confirmation never flips the outcome.
	assert.False(t, c.Confirm("ANIMAL", "ZEBRA", false))
	assert.Equal(t, Valid, c.Verdict("ANIMAL", "Zebra"))

	assert.True(t, c.Confirm("OBJECT", "Zxq", false))
	assert.Equal(t, Invalid, c.Verdict("OBJECT", "Zxq"))
	assert.Equal(t, Unknown, c.Verdict("FRUIT", "Zxq"))
}

func TestVerdictsRulesWinOverConfirmation(t *testing.T) {
	c := NewVerdicts(NewValidator(nil), 'Z')
	assert.False(t, c.Confirm("ANIMAL", "Ant", true))
	assert.Equal(t, Invalid, c.Verdict("ANIMAL", "Ant"))
}

func TestVerdictsJudgeOtherLetter(t *testing.T) {
	c := NewVerdicts(NewValidator(curated("A|ANIMAL|ant")), 'Z')
	assert.Equal(t, Valid, c.Judge('A', "ANIMAL", "Ant"))
	assert.Equal(t, Invalid, c.Judge('A', "ANIMAL", "Zebra"))
}

func TestLookupKeyNormalizes(t *testing.T) {
	assert.Equal(t, LookupKey("ANIMAL", " Zebra"), LookupKey("ANIMAL", "zebra "))
	assert.NotEqual(t, LookupKey("ANIMAL", "zebra"), LookupKey("OBJECT", "zebra"))
}

func TestParseLetter(t *testing.T) {
	l, err := ParseLetter(" q ")
	assert.NoError(t, err)
	assert.Equal(t, Letter('Q'), l)

	_, err = ParseLetter("qq")
	assert.Error(t, err)
	_, err = ParseLetter("1")
	assert.Error(t, err)
}
