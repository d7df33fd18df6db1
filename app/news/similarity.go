package news

// Ratio measures the similarity of two strings in [0, 1] as twice the total
// size of their longest matching blocks divided by the combined length.
// Blocks are found greedily: the longest common substring first, then the
// same search recursively on the pieces to its left and right. Operates on
// runes so multi-byte text compares by character, not by byte.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingSize(ra, rb)) / float64(total)
}

func matchingSize(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingSize(a[:ai], b[:bi]) +
		matchingSize(a[ai+size:], b[bi+size:])
}

// longestMatch returns the start positions and length of the longest common
// substring of a and b. Ties resolve to the earliest position in a, then b.
func longestMatch(a, b []rune) (int, int, int) {
	var bestA, bestB, best int

	// runLen[j] holds the length of the common run ending at a[i-1], b[j].
	runLen := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := runLen[j-1] + 1
			next[j] = k
			if k > best {
				bestA, bestB, best = i-k+1, j-k+1, k
			}
		}
		runLen = next
	}

	return bestA, bestB, best
}
