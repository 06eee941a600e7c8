package admin_test

import (
	"context"
	"errors"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/admin"
	"github.com/gigdesk/gigdesk/internal/workflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type apiMock struct {
	SetEmployerVerifiedFunc     func(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error)
	SetEmployerVerificationFunc func(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error)

	listCalls int
}

func (m *apiMock) ListEmployers(ctx context.Context) ([]api.EmployerProfile, error) {
	m.listCalls++
	return []api.EmployerProfile{
		{Id: "e1", CompanyName: "Acme", VerificationStatus: api.VerificationStatusPending},
		{Id: "e2", CompanyName: "Globex", Verified: true, VerificationStatus: api.VerificationStatusApproved},
	}, nil
}

func (m *apiMock) SetEmployerVerified(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error) {
	return m.SetEmployerVerifiedFunc(ctx, employerID, verified)
}

func (m *apiMock) SetEmployerVerification(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error) {
	return m.SetEmployerVerificationFunc(ctx, employerID, status)
}

var _ = Describe("employer verification", func() {
	var (
		ctx          context.Context
		client       *apiMock
		verification *admin.Verification
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &apiMock{}
		verification = admin.NewVerification(client)
		entries, err := verification.Load(ctx)
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(2))
	})

	It("shows the optimistic value as pending until the server answers", func() {
		release := make(chan struct{})
		seen := make(chan admin.Entry, 1)
		client.SetEmployerVerifiedFunc = func(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error) {
			e, _ := verification.Get(employerID)
			seen <- e
			<-release
			return &api.EmployerProfile{Id: employerID, CompanyName: "Acme Inc", Verified: true, VerificationStatus: api.VerificationStatusApproved}, nil
		}

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := verification.Toggle(ctx, "e1", true)
			done <- err
		}()

		var during admin.Entry
		Eventually(seen).Should(Receive(&during))
		Expect(during.Pending).To(BeTrue())
		Expect(during.Profile.Verified).To(BeTrue())

		_, err := verification.Toggle(ctx, "e1", false)
		Expect(errors.Is(err, admin.ErrPending)).To(BeTrue())

		close(release)
		Eventually(done).Should(Receive(BeNil()))

		after, _ := verification.Get("e1")
		Expect(after.Pending).To(BeFalse())
		Expect(after.Profile.CompanyName).To(Equal("Acme Inc"))
		Expect(after.Profile.VerificationStatus).To(Equal(api.VerificationStatusApproved))
		Expect(after.State.Phase).To(Equal(workflow.Succeeded))
	})

	It("reverts to the previous value without refetching", func() {
		client.SetEmployerVerifiedFunc = func(ctx context.Context, employerID string, verified bool) (*api.EmployerProfile, error) {
			return nil, errors.New("forbidden")
		}

		_, err := verification.Toggle(ctx, "e2", false)
		Expect(err).To(MatchError(ContainSubstring("forbidden")))

		e, _ := verification.Get("e2")
		Expect(e.Profile.Verified).To(BeTrue())
		Expect(e.Pending).To(BeFalse())
		Expect(e.State.IsFailed()).To(BeTrue())
		Expect(client.listCalls).To(Equal(1))
	})

	It("updates the verification status", func() {
		client.SetEmployerVerificationFunc = func(ctx context.Context, employerID string, status api.VerificationStatus) (*api.EmployerProfile, error) {
			return &api.EmployerProfile{Id: employerID, VerificationStatus: status}, nil
		}
		updated, err := verification.SetStatus(ctx, "e1", api.VerificationStatusRejected)
		Expect(err).To(BeNil())
		Expect(updated.VerificationStatus).To(Equal(api.VerificationStatusRejected))

		_, err = verification.SetStatus(ctx, "e1", "maybe")
		Expect(err).NotTo(BeNil())
	})

	It("rejects unknown employers", func() {
		_, err := verification.Toggle(ctx, "nobody", true)
		Expect(errors.Is(err, admin.ErrUnknownEmployer)).To(BeTrue())
	})

	It("tracks a single employer", func() {
		verification.Track(api.EmployerProfile{Id: "e3"})
		Expect(verification.Entries()).To(HaveLen(3))
		verification.Track(api.EmployerProfile{Id: "e3", CompanyName: "Initech"})
		Expect(verification.Entries()).To(HaveLen(3))
	})
})
