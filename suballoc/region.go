// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

// minRegionSize is the smallest free range insertRegion will keep
// around; anything smaller is simply dropped as unusable slack.
const minRegionSize = 1 << 10 // PLVK_HEAP_MINIMUM_REGION_SIZE

// region is a half-open free byte range [start, end) within a slab.
type region struct {
	start, end uint64
}

func (r region) len() uint64 {
	return r.end - r.start
}

// insertRegion inserts r into the sorted, disjoint, non-adjacent list
// of free regions, coalescing with any region(s) it touches. regions
// below minRegionSize are dropped rather than kept, except when the
// insertion extends an existing region by coalescing (a coalesced
// region is never dropped, since it replaces material the caller
// already tracked).
func insertRegion(regions []region, r region) []region {
	if r.start == r.end {
		return regions
	}

	bigEnough := r.len() >= minRegionSize

	for i := range regions {
		cur := &regions[i]

		if cur.end == r.start {
			// r sits at the tail of cur: extend cur, then coalesce
			// forward with any now-adjacent regions that follow.
			cur.end = r.end
			j := i + 1
			for j < len(regions) && cur.end == regions[j].start {
				cur.end = regions[j].end
				j++
			}
			regions = append(regions[:i+1], regions[j:]...)
			return regions
		}

		if cur.start == r.end {
			// r sits at the head of cur. Backward coalescing past cur
			// would already have been caught by a prior iteration's
			// tail check, so only cur itself needs extending.
			cur.start = r.start
			return regions
		}

		if cur.start > r.start {
			// r comes before cur and is disconnected from every
			// region seen so far: insert it here.
			if !bigEnough {
				return regions
			}
			regions = append(regions, region{})
			copy(regions[i+1:], regions[i:])
			regions[i] = r
			return regions
		}
	}

	// Every region comes before r and none is adjacent: append.
	if !bigEnough {
		return regions
	}
	return append(regions, r)
}
