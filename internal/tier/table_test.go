package tier_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srp14/srp/internal/tier"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleConfig = `
tiers:
  - name: frigate
    payoutCap: 100
    categories: [frigate, destroyer]
  - name: cruiser
    payoutCap: 500
    categories: [cruiser]
`

func TestLoad_Success(t *testing.T) {
	tbl := tier.NewTable()
	require.False(t, tbl.IsLoaded())

	err := tbl.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.True(t, tbl.IsLoaded())

	cap, ok := tbl.MaxPayout("destroyer")
	require.True(t, ok)
	assert.Equal(t, int64(100), cap)

	name, ok := tbl.TierName("cruiser")
	require.True(t, ok)
	assert.Equal(t, "cruiser", name)
}

func TestLoad_UnknownCategory(t *testing.T) {
	tbl := tier.NewTable()
	require.NoError(t, tbl.Load(writeConfig(t, sampleConfig)))

	_, ok := tbl.MaxPayout("titan")
	assert.False(t, ok)

	_, ok = tbl.TierName("titan")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	tbl := tier.NewTable()

	err := tbl.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, tier.ErrConfig)
	assert.False(t, tbl.IsLoaded())
}

func TestLoad_Malformed(t *testing.T) {
	tbl := tier.NewTable()

	err := tbl.Load(writeConfig(t, "tiers: [not a tier"))
	assert.ErrorIs(t, err, tier.ErrConfig)
}

func TestLoad_EmptyTiers(t *testing.T) {
	tbl := tier.NewTable()

	err := tbl.Load(writeConfig(t, "tiers: []"))
	assert.ErrorIs(t, err, tier.ErrConfig)
}

func TestLoad_NegativeCap(t *testing.T) {
	tbl := tier.NewTable()

	err := tbl.Load(writeConfig(t, `
tiers:
  - name: bad
    payoutCap: -1
    categories: [x]
`))
	assert.ErrorIs(t, err, tier.ErrConfig)
}

func TestLoad_DuplicateCategoryLastWins(t *testing.T) {
	tbl := tier.NewTable()

	err := tbl.Load(writeConfig(t, `
tiers:
  - name: first
    payoutCap: 10
    categories: [shared]
  - name: second
    payoutCap: 20
    categories: [shared]
`))
	require.NoError(t, err)

	cap, ok := tbl.MaxPayout("shared")
	require.True(t, ok)
	assert.Equal(t, int64(20), cap)

	name, _ := tbl.TierName("shared")
	assert.Equal(t, "second", name)
}

func TestLoad_ReplacesWholesale(t *testing.T) {
	tbl := tier.NewTable()
	require.NoError(t, tbl.Load(writeConfig(t, sampleConfig)))

	err := tbl.Load(writeConfig(t, `
tiers:
  - name: capital
    payoutCap: 9000
    categories: [dreadnought]
`))
	require.NoError(t, err)

	_, ok := tbl.MaxPayout("frigate")
	assert.False(t, ok, "old mapping should be gone after reload")

	cap, ok := tbl.MaxPayout("dreadnought")
	require.True(t, ok)
	assert.Equal(t, int64(9000), cap)
}

func TestLoad_FailureKeepsPreviousMapping(t *testing.T) {
	tbl := tier.NewTable()
	require.NoError(t, tbl.Load(writeConfig(t, sampleConfig)))

	err := tbl.Load(writeConfig(t, "tiers: ["))
	require.ErrorIs(t, err, tier.ErrConfig)

	assert.True(t, tbl.IsLoaded())
	cap, ok := tbl.MaxPayout("frigate")
	require.True(t, ok)
	assert.Equal(t, int64(100), cap)
}

func TestDefinitions_FileOrder(t *testing.T) {
	tbl := tier.NewTable()
	require.NoError(t, tbl.Load(writeConfig(t, sampleConfig)))

	defs := tbl.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "frigate", defs[0].Name)
	assert.Equal(t, "cruiser", defs[1].Name)
}

func TestDefinitions_SnapshotIsIndependent(t *testing.T) {
	tbl := tier.NewTable()
	require.NoError(t, tbl.Load(writeConfig(t, sampleConfig)))

	defs := tbl.Definitions()
	defs[0].Name = "mangled"
	defs[0].PayoutCap = 1
	defs[0].Categories[0] = "mangled"

	name, ok := tbl.TierName("frigate")
	require.True(t, ok)
	assert.Equal(t, "frigate", name)

	fresh := tbl.Definitions()
	assert.Equal(t, "frigate", fresh[0].Name)
	assert.Equal(t, int64(100), fresh[0].PayoutCap)
	assert.Equal(t, []string{"frigate", "destroyer"}, fresh[0].Categories)
}
