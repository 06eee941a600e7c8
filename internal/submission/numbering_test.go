package submission_test

import (
	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/submission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("numbering", func() {
	list := []api.Submission{
		sub("c", 20, api.SubmissionStatusPending),
		sub("a", 0, api.SubmissionStatusRejected),
		sub("b", 10, api.SubmissionStatusRevisionRequested),
	}

	It("ranks by ascending creation time", func() {
		Expect(submission.Numbers(list)).To(Equal(map[string]int{"a": 1, "b": 2, "c": 3}))
	})

	It("is stable when a later submission is removed", func() {
		Expect(submission.Numbers(list[1:])).To(Equal(map[string]int{"a": 1, "b": 2}))
	})

	It("shifts when an earlier submission is removed", func() {
		remaining := []api.Submission{list[0], list[2]}
		Expect(submission.Number(remaining, "c")).To(Equal(2))
		Expect(submission.Number(remaining, "b")).To(Equal(1))
	})

	It("does not reorder its input", func() {
		sorted := submission.SortNewestFirst(list)
		Expect(ids(sorted)).To(Equal([]string{"c", "b", "a"}))
		Expect(ids(list)).To(Equal([]string{"c", "a", "b"}))
	})

	It("returns zero for unknown ids", func() {
		Expect(submission.Number(list, "zzz")).To(Equal(0))
	})
})
