package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortResults_NoKeyKeepsCatalogOrder(t *testing.T) {
	products := testCatalog()
	sorted, err := SortResults(products, SortNone, "")
	require.NoError(t, err)
	assert.Equal(t, ids(products), ids(sorted))
}

func TestSortResults_ByEffectivePrice(t *testing.T) {
	products := testCatalog()
	// 折后价：p1=10000, p2=10000, p3=31500, p4=8000
	sorted, err := SortResults(products, SortPrice, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "p1", "p2", "p3"}, ids(sorted), "equal prices keep catalog order (stable sort)")

	desc, err := SortResults(products, SortPrice, SortDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1", "p2", "p4"}, ids(desc))

	// 输入不被修改
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(products))
}

func TestSortResults_ByName(t *testing.T) {
	sorted, err := SortResults(testCatalog(), SortName, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p4", "p2", "p1"}, ids(sorted))
}

func TestSortResults_ByAddedAt(t *testing.T) {
	sorted, err := SortResults(testCatalog(), SortAddedAt, SortDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"p4", "p3", "p2", "p1"}, ids(sorted))
}

func TestSortResults_UnknownKeyRejected(t *testing.T) {
	_, err := SortResults(testCatalog(), SortKey("weight"), SortAsc)
	assert.Error(t, err)

	_, err = SortResults(testCatalog(), SortPrice, SortOrder("sideways"))
	assert.Error(t, err)
}
