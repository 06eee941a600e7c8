package submission

import (
	"sort"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

// SortNewestFirst orders submissions by descending creation time.
func SortNewestFirst(list []api.Submission) []api.Submission {
	out := make([]api.Submission, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id > out[j].Id
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Numbers maps every submission id to its 1-based rank by ascending creation
// time. It is recomputed from the list on every call and never stored.
func Numbers(list []api.Submission) map[string]int {
	ordered := SortNewestFirst(list)
	numbers := make(map[string]int, len(ordered))
	for i := range ordered {
		numbers[ordered[i].Id] = len(ordered) - i
	}
	return numbers
}

// Number returns the rank of id within list, or 0 when it is not there.
func Number(list []api.Submission, id string) int {
	return Numbers(list)[id]
}
