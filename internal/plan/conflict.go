package plan

import "sort"

// Conflict is a pair of open threads whose declared file sets intersect.
type Conflict struct {
	ThreadA string
	ThreadB string
	Files   []string
}

// FindConflicts returns every unordered pair of open (unapproved) threads
// with overlapping declared files. Approved threads are excluded entirely:
// an approved plan is assumed merged and no longer a live conflict risk.
// File lists are sorted per pair; pair order follows the sorted scan of
// anchor ids. The pairwise scan is O(n²), fine for the single-digit
// working sets this tool sees.
func FindConflicts(c *Channel) []Conflict {
	open := c.OpenThreads()
	var conflicts []Conflict
	for i, idA := range open {
		filesA := fileSet(c.Threads[idA].Files)
		for _, idB := range open[i+1:] {
			var overlap []string
			for f := range fileSet(c.Threads[idB].Files) {
				if filesA[f] {
					overlap = append(overlap, f)
				}
			}
			if len(overlap) > 0 {
				sort.Strings(overlap)
				conflicts = append(conflicts, Conflict{ThreadA: idA, ThreadB: idB, Files: overlap})
			}
		}
	}
	return conflicts
}

func fileSet(files []string) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return set
}
