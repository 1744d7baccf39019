package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = []string{
	"Company overview.\nThe platform is a marketplace lending business.",
	"Infrastructure is hosted across the AWS regions in Ireland and Singapore.\nBackups run nightly.",
	"Directors and shareholders are listed in annex B.",
}

func TestLocateRejectsShortQuotes(t *testing.T) {
	l := New()

	res := l.Locate("short", []string{"short short short"})
	assert.Empty(t, res.Regions)
	assert.Empty(t, res.Strategy)

	res = l.Locate("", pages)
	assert.Empty(t, res.Regions)
}

func TestLocateExactOnSinglePage(t *testing.T) {
	l := New()
	quote := "hosted across the AWS regions in Ireland and Singapore"

	res := l.Locate(quote, pages)

	require.Len(t, res.Regions, 1)
	assert.Equal(t, "exact", res.Strategy)
	r := res.Regions[0]
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, quote, pages[1][r.Start:r.End])
}

func TestLocateIgnoresCase(t *testing.T) {
	res := New().Locate("DIRECTORS AND SHAREHOLDERS", pages)

	require.Len(t, res.Regions, 1)
	assert.Equal(t, 2, res.Regions[0].Page)
}

func TestLocateUnionsMatchesAcrossPages(t *testing.T) {
	doc := []string{
		"Risk appetite statement. Board approval pending.",
		"Nothing here.",
		"As noted, Risk appetite statement must be reviewed.",
	}

	res := New().Locate("Risk appetite statement", doc)

	require.Len(t, res.Regions, 2)
	assert.Equal(t, 0, res.Regions[0].Page)
	assert.Equal(t, 2, res.Regions[1].Page)
}

func TestLocateNormalizesWhitespace(t *testing.T) {
	quote := "Infrastructure   is hosted\n\tacross the AWS"

	res := New().Locate(quote, pages)

	require.NotEmpty(t, res.Regions)
	assert.Equal(t, "normalized", res.Strategy)
	assert.Equal(t, 1, res.Regions[0].Page)
}

func TestLocateToleratesLineWrapInPage(t *testing.T) {
	quote := "marketplace lending business. The platform"
	doc := []string{"a marketplace lending\nbusiness. The platform grows"}

	res := New().Locate(quote, doc)

	require.Len(t, res.Regions, 1)
	assert.Equal(t, "normalized", res.Strategy)
	assert.Equal(t, "marketplace lending\nbusiness. The platform", doc[0][res.Regions[0].Start:res.Regions[0].End])
}

func TestLocateFallsBackToPrefix(t *testing.T) {
	// The first five words exist verbatim, the tail was paraphrased by the provider.
	quote := "Infrastructure is hosted across the cloud provider of our choice"

	res := New().Locate(quote, pages)

	require.Len(t, res.Regions, 1)
	assert.Equal(t, "prefix", res.Strategy)
	assert.Equal(t, 1, res.Regions[0].Page)
}

func TestPrefixSkipsShortQuotes(t *testing.T) {
	regions := Prefix{Words: PrefixWords}.Match("Backups run nightly offsite", pages)
	assert.Nil(t, regions)
}

func TestLocateReturnsEmptyWhenNothingMatches(t *testing.T) {
	res := New().Locate("all customer data is stored in Qatar", pages)

	assert.NotNil(t, res.Regions)
	assert.Empty(t, res.Regions)
}

func TestLocateWithCustomChain(t *testing.T) {
	l := New(Exact{})

	res := l.Locate("Infrastructure   is hosted", pages)

	assert.Empty(t, res.Regions)
}
