package optimize

import "math"

// solveAssignment solves the minimum-cost perfect matching on a square
// cost matrix using the Hungarian algorithm with potentials, O(n³).
// It returns, for each row i, the column assigned to it. The input is not
// modified. Costs must be finite; callers encode forbidden transitions as
// a large sentinel rather than infinity.
func solveAssignment(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-based arrays; index 0 is the virtual unmatched column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	matchedRow := make([]int, n+1) // matchedRow[j] = row currently matched to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		matchedRow[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Grow an alternating tree until a free column is found.
		for {
			used[j0] = true
			i0 := matchedRow[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				reduced := cost[i0-1][j-1] - u[i0] - v[j]
				if reduced < minv[j] {
					minv[j] = reduced
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[matchedRow[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if matchedRow[j0] == 0 {
				break
			}
		}

		// Augment along the found path.
		for j0 != 0 {
			j1 := way[j0]
			matchedRow[j0] = matchedRow[j1]
			j0 = j1
		}
	}

	assignment := make([]int, n)
	for j := 1; j <= n; j++ {
		if matchedRow[j] > 0 {
			assignment[matchedRow[j]-1] = j - 1
		}
	}
	return assignment
}
