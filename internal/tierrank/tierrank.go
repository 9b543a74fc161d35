// Package tierrank holds the pure tier-ranking model: the seven rank
// buckets, the configurable rank-to-label schemes, and the bucketing
// helpers used to shape server responses for display. Nothing in this
// package performs I/O.
package tierrank

import (
	"fmt"

	"tierlist-client/internal/models"
)

// Rank identifies one of the seven tier buckets, 1 being the top tier.
type Rank int

const (
	MinRank Rank = 1
	MaxRank Rank = 7
)

// Valid reports whether the rank falls inside the seven-bucket range.
func (r Rank) Valid() bool {
	return r >= MinRank && r <= MaxRank
}

// Up returns the next rank towards the top, clamped at MinRank.
func (r Rank) Up() Rank {
	if r <= MinRank {
		return MinRank
	}
	return r - 1
}

// Down returns the next rank towards the bottom, clamped at MaxRank.
func (r Rank) Down() Rank {
	if r >= MaxRank {
		return MaxRank
	}
	return r + 1
}

// Scheme maps the seven ranks to display labels. Index 0 is rank 1.
type Scheme struct {
	name   string
	labels [7]string
}

var (
	// SchemeSPlus is the default labeling: S+ at the top.
	SchemeSPlus = Scheme{name: "splus", labels: [7]string{"S+", "S", "A", "B", "C", "D", "F"}}

	// SchemeClassic is the alternative labeling without a plus tier.
	SchemeClassic = Scheme{name: "classic", labels: [7]string{"S", "A", "B", "C", "D", "E", "F"}}
)

// SchemeByName resolves a configured scheme name. Unknown names are a
// configuration error and must be rejected at startup, not defaulted.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case "", SchemeSPlus.name:
		return SchemeSPlus, nil
	case SchemeClassic.name:
		return SchemeClassic, nil
	}
	return Scheme{}, fmt.Errorf("unknown tier label scheme %q", name)
}

// Name returns the scheme's configuration name.
func (s Scheme) Name() string {
	return s.name
}

// Labels returns the seven labels in rank order.
func (s Scheme) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels[:])
	return out
}

// Label returns the display label for a rank.
func (s Scheme) Label(r Rank) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("rank %d outside [%d,%d]", r, MinRank, MaxRank)
	}
	return s.labels[r-1], nil
}

// RankOf is the inverse of Label over the scheme's seven entries.
func (s Scheme) RankOf(label string) (Rank, error) {
	for i, l := range s.labels {
		if l == label {
			return Rank(i + 1), nil
		}
	}
	return 0, fmt.Errorf("label %q not part of scheme %q", label, s.name)
}

// BucketByRank partitions items into their rank buckets. Every rank in
// [1,7] is present in the result, empty buckets included, and items keep
// their input order inside a bucket.
func BucketByRank(items []models.Item) map[Rank][]models.Item {
	buckets := make(map[Rank][]models.Item, MaxRank)
	for r := MinRank; r <= MaxRank; r++ {
		buckets[r] = []models.Item{}
	}
	for _, item := range items {
		r := Rank(item.Rank)
		if !r.Valid() {
			// Server data outside the rank range has nowhere to go;
			// clamp it into the nearest bucket so it stays visible.
			if r < MinRank {
				r = MinRank
			} else {
				r = MaxRank
			}
		}
		buckets[r] = append(buckets[r], item)
	}
	return buckets
}

// CountPerLabel counts items under each display label of the scheme.
// Labels with no items are present with a zero count so the UI can
// render empty tiers.
func CountPerLabel(items []models.Item, scheme Scheme) map[string]int {
	counts := make(map[string]int, MaxRank)
	for _, l := range scheme.labels {
		counts[l] = 0
	}
	for r, bucket := range BucketByRank(items) {
		counts[scheme.labels[r-1]] += len(bucket)
	}
	return counts
}
