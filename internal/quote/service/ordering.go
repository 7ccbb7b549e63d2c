package service

import "fmt"

// validatePermutation checks that perm is a bijection onto base..base+n-1.
// Template line order uses base 0, catalog display order uses base 1.
func validatePermutation(perm []int, n, base int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: permutation has %d entries, want %d", ErrOrderConflict, len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		idx := p - base
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: position %d out of range [%d,%d]", ErrOrderConflict, p, base, base+n-1)
		}
		if seen[idx] {
			return fmt.Errorf("%w: position %d appears more than once", ErrOrderConflict, p)
		}
		seen[idx] = true
	}
	return nil
}
