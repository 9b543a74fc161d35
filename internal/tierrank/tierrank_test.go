package tierrank

import (
	"testing"

	"tierlist-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketByRankPartitionsExactly(t *testing.T) {
	items := []models.Item{
		{ID: 1, Name: "alpha", Rank: 3},
		{ID: 2, Name: "bravo", Rank: 1},
		{ID: 3, Name: "charlie", Rank: 3},
		{ID: 4, Name: "delta", Rank: 7},
		{ID: 5, Name: "echo", Rank: 3},
	}

	buckets := BucketByRank(items)

	// All seven buckets exist, empty ones included.
	require.Len(t, buckets, 7)
	for r := MinRank; r <= MaxRank; r++ {
		require.Contains(t, buckets, r)
	}

	// Every item lands in exactly the bucket of its rank, and the
	// union of the buckets is the input.
	total := 0
	for r, bucket := range buckets {
		for _, item := range bucket {
			assert.Equal(t, int(r), item.Rank)
		}
		total += len(bucket)
	}
	assert.Equal(t, len(items), total)

	// Insertion order is preserved within a bucket.
	rank3 := buckets[Rank(3)]
	require.Len(t, rank3, 3)
	assert.Equal(t, []string{"alpha", "charlie", "echo"},
		[]string{rank3[0].Name, rank3[1].Name, rank3[2].Name})
}

func TestBucketByRankEmptyInput(t *testing.T) {
	buckets := BucketByRank(nil)
	require.Len(t, buckets, 7)
	for r := MinRank; r <= MaxRank; r++ {
		assert.Empty(t, buckets[r])
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for _, scheme := range []Scheme{SchemeSPlus, SchemeClassic} {
		for r := MinRank; r <= MaxRank; r++ {
			label, err := scheme.Label(r)
			require.NoError(t, err)

			back, err := scheme.RankOf(label)
			require.NoError(t, err)
			assert.Equal(t, r, back, "scheme %s rank %d", scheme.Name(), r)
		}
	}
}

func TestSchemeByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "splus"},
		{name: "splus", want: "splus"},
		{name: "classic", want: "classic"},
		{name: "letters", wantErr: true},
	}

	for _, tt := range tests {
		scheme, err := SchemeByName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, "name %q", tt.name)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, scheme.Name())
	}
}

func TestLabelOutsideRange(t *testing.T) {
	_, err := SchemeSPlus.Label(0)
	assert.Error(t, err)
	_, err = SchemeSPlus.Label(8)
	assert.Error(t, err)
	_, err = SchemeSPlus.RankOf("E") // E only exists in the classic scheme
	assert.Error(t, err)
}

func TestRankClamping(t *testing.T) {
	assert.Equal(t, MinRank, MinRank.Up())
	assert.Equal(t, MaxRank, MaxRank.Down())
	assert.Equal(t, Rank(2), Rank(3).Up())
	assert.Equal(t, Rank(4), Rank(3).Down())
}

func TestCountPerLabelIncludesZeroTiers(t *testing.T) {
	counts := CountPerLabel(nil, SchemeSPlus)
	require.Len(t, counts, 7)
	for _, label := range SchemeSPlus.Labels() {
		assert.Equal(t, 0, counts[label])
	}

	items := []models.Item{
		{ID: 1, Rank: 1},
		{ID: 2, Rank: 1},
		{ID: 3, Rank: 4},
	}
	counts = CountPerLabel(items, SchemeSPlus)
	require.Len(t, counts, 7)
	assert.Equal(t, 2, counts["S+"])
	assert.Equal(t, 1, counts["B"])
	assert.Equal(t, 0, counts["F"])
}
