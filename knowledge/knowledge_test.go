package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethods_LoadsEmbeddedGuidance(t *testing.T) {
	methods, err := Methods()
	require.NoError(t, err)
	require.NotEmpty(t, methods)

	recipe, ok := methods["ReCiPe 2016 Midpoint (H)"]
	require.True(t, ok)
	assert.Equal(t, "midpoint", recipe.Type)
	assert.NotEmpty(t, recipe.BestFor)
}

func TestRecommendedMethodName_PerDatabase(t *testing.T) {
	name, err := RecommendedMethodName("elcd")
	require.NoError(t, err)
	assert.Equal(t, "ILCD 2011 Midpoint+", name)

	name, err = RecommendedMethodName("agribalyse")
	require.NoError(t, err)
	assert.Equal(t, "EF 3.0 Method", name)
}

func TestRecommendedMethodName_FallbackForUnknownDatabase(t *testing.T) {
	name, err := RecommendedMethodName("mystery-db")
	require.NoError(t, err)
	assert.Equal(t, "ReCiPe 2016 Midpoint (H)", name)
}

func TestDatabases_CarryAlternativesAndDomains(t *testing.T) {
	databases, err := Databases()
	require.NoError(t, err)

	elcd, ok := databases["elcd"]
	require.True(t, ok)
	assert.NotEmpty(t, elcd.Strengths)
	assert.NotEmpty(t, elcd.Alternatives)
	assert.Contains(t, elcd.Domains, "materials")
}

func TestDomainKeywords_CoverKnownDomains(t *testing.T) {
	keywords, err := DomainKeywords()
	require.NoError(t, err)

	for _, domain := range []string{"food", "energy", "materials", "transport"} {
		assert.NotEmpty(t, keywords[domain], "domain %s must have keywords", domain)
	}
}
