package v1alpha1

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected, SubmissionStatusRevisionRequested:
		return true
	default:
		return false
	}
}

// Reviewed is true once an employer has acted on the submission.
func (s SubmissionStatus) Reviewed() bool {
	return s != SubmissionStatusPending
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected,
		ApplicationStatusInterview, ApplicationStatusOffered, ApplicationStatusCompleted:
		return true
	default:
		return false
	}
}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return true
	default:
		return false
	}
}

func FileKeys(files []FileDescriptor) []string {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.FileKey)
	}
	return keys
}
