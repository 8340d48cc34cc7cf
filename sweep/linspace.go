// SPDX-License-Identifier: MIT

package sweep

// Linspace returns num evenly spaced values over [start, stop], both ends
// included. num == 1 yields [start]; num ≤ 0 yields nil.
func Linspace(start, stop float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	out := make([]float64, num)
	if num == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(num-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[num-1] = stop

	return out
}
