package engine

// slideLine compacts a line toward index 0 and merges equal neighbours.
// Returns the new line and the score gained from merges.
//
// The scan visits the non-empty values once; a merged pair is skipped as a
// whole, so a value never merges twice: 2,2,2 becomes 4,2 and 2,2,4 becomes
// 4,4 (not 8).
func slideLine(line []int) (result []int, score int) {
	values := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			values = append(values, v)
		}
	}

	result = make([]int, len(line))
	writePos := 0
	for i := 0; i < len(values); {
		if i+1 < len(values) && values[i] == values[i+1] {
			result[writePos] = values[i] * 2
			score += result[writePos]
			i += 2
		} else {
			result[writePos] = values[i]
			i++
		}
		writePos++
	}

	return result, score
}

// lineChanged reports whether any position differs.
func lineChanged(before, after []int) bool {
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}
