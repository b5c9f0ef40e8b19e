package normalize

// Ratio computes a similarity score in [0, 1] between two strings using the
// longest-matching-blocks measure: 2*M/T where M is the total length of all
// matched blocks and T the combined length of both inputs. Identical strings
// score 1.0, fully disjoint strings 0.0.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)

	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}

	matched := matchingSize(ar, br)
	return 2.0 * float64(matched) / float64(total)
}

// matchingSize sums the lengths of matching blocks: find the longest common
// block, then recurse on the unmatched pieces to its left and right.
func matchingSize(a, b []rune) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingSize(a[:ai], b[:bi]) +
		matchingSize(a[ai+size:], b[bi+size:])
}

// longestBlock locates the longest contiguous block common to a and b,
// preferring the earliest occurrence in a, then in b.
func longestBlock(a, b []rune) (bestA, bestB, bestSize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the length of the common suffix ending at a[i-1], b[j-1]
	// for the current row i.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > bestSize {
				bestSize = curr[j]
				bestA = i - curr[j]
				bestB = j - curr[j]
			}
		}
		prev, curr = curr, prev
	}

	return bestA, bestB, bestSize
}
