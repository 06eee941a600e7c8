package v1alpha1

import "time"

// SubmissionStatus is the server-side review status of a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending           SubmissionStatus = "pending"
	SubmissionStatusApproved          SubmissionStatus = "approved"
	SubmissionStatusRejected          SubmissionStatus = "rejected"
	SubmissionStatusRevisionRequested SubmissionStatus = "revision_requested"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusSubmitted  TaskStatus = "submitted"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusClosed     TaskStatus = "closed"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusOffered   ApplicationStatus = "offered"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "open"
	DisputeStatusUnderReview DisputeStatus = "under_review"
	DisputeStatusResolved    DisputeStatus = "resolved"
	DisputeStatusCancelled   DisputeStatus = "cancelled"
)

type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Remote  bool   `json:"remote"`
}

// Job is a full job posting.
type Job struct {
	Id             string     `json:"_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Salary         float64    `json:"salary,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         TaskStatus `json:"status"`
	EmployerId     string     `json:"employerId,omitempty"`
	RequiredSkills []string   `json:"skills,omitempty"`
	Location       Location   `json:"location"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type JobCreate struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"required"`
	Category       string     `json:"category,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Salary         float64    `json:"salary,omitempty" validate:"gte=0"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	RequiredSkills []string   `json:"skills,omitempty"`
	Location       Location   `json:"location"`
}

// MiniTask is a small gig with a budget and a deadline.
type MiniTask struct {
	Id             string     `json:"_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Budget         float64    `json:"budget"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         TaskStatus `json:"status"`
	EmployerId     string     `json:"employer,omitempty"`
	AssignedTo     *string    `json:"assignedTo,omitempty"`
	RequiredSkills []string   `json:"skillsRequired,omitempty"`
	Location       Location   `json:"location"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type MiniTaskCreate struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"required"`
	Category       string     `json:"category,omitempty"`
	Subcategory    string     `json:"subcategory,omitempty"`
	Budget         float64    `json:"budget" validate:"gt=0"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	RequiredSkills []string   `json:"skillsRequired,omitempty"`
	Location       Location   `json:"location"`
}

type Application struct {
	Id          string            `json:"_id"`
	ApplicantId string            `json:"applicant"`
	JobId       string            `json:"job"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type ApplicationCreate struct {
	CoverLetter string `json:"coverLetter,omitempty"`
}

type Bid struct {
	Id        string            `json:"_id"`
	BidderId  string            `json:"bidder"`
	TaskId    string            `json:"task"`
	Status    ApplicationStatus `json:"status"`
	Amount    float64           `json:"amount"`
	Timeline  string            `json:"timeline"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

type BidCreate struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Timeline string  `json:"timeline" validate:"required"`
	Message  string  `json:"message" validate:"required"`
}

type StatusUpdate struct {
	Status ApplicationStatus `json:"status" validate:"required,application_status"`
}

// FileDescriptor points at a stored object. The bytes never travel in the submission record.
type FileDescriptor struct {
	FileKey string `json:"fileKey"`
}

type Submission struct {
	Id           string           `json:"_id"`
	TaskId       string           `json:"taskId"`
	FreelancerId string           `json:"freelancerId"`
	Message      string           `json:"message"`
	Files        []FileDescriptor `json:"files"`
	Status       SubmissionStatus `json:"status"`
	Feedback     *string          `json:"feedback,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type SubmissionCreate struct {
	Message  string           `json:"message" validate:"required,min=10"`
	FileKeys []FileDescriptor `json:"fileKeys" validate:"required,min=1,dive"`
}

type Review struct {
	Status   SubmissionStatus `json:"status" validate:"required,submission_status"`
	Feedback string           `json:"feedback"`
}

// UploadTargetRequest describes the file for which a signed upload URL is requested.
type UploadTargetRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
	FileSize int64  `json:"fileSize" validate:"gt=0"`
	TaskId   string `json:"taskId,omitempty"`
}

type UploadTarget struct {
	UploadURL string `json:"uploadURL"`
	FileKey   string `json:"fileKey"`
	PublicURL string `json:"publicUrl,omitempty"`
}

// EvidenceUploadTarget has the shape returned by the dispute evidence endpoint.
type EvidenceUploadTarget struct {
	PublicURL string `json:"publicUrl"`
	UploadURL string `json:"uploadUrl"`
}

type PreviewURL struct {
	PreviewURL string `json:"previewURL"`
}

type EmployerProfile struct {
	Id                 string             `json:"_id"`
	UserId             string             `json:"user,omitempty"`
	CompanyName        string             `json:"companyName"`
	Website            string             `json:"website,omitempty"`
	Industry           string             `json:"industry,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	Verified           bool               `json:"verified"`
}

type EmployerVerification struct {
	Status VerificationStatus `json:"verificationStatus" validate:"required,verification_status"`
}

type EmployerVerified struct {
	Verified bool `json:"verified"`
}

type Dispute struct {
	Id         string        `json:"_id"`
	TaskId     string        `json:"taskId"`
	RaisedBy   string        `json:"raisedBy"`
	Reason     string        `json:"reason"`
	Evidence   []string      `json:"evidence,omitempty"`
	Status     DisputeStatus `json:"status"`
	Resolution *string       `json:"resolution,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type DisputeCreate struct {
	TaskId   string   `json:"taskId" validate:"required"`
	Reason   string   `json:"reason" validate:"required,min=10"`
	Evidence []string `json:"evidence,omitempty"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Otp   string `json:"otp" validate:"required,numeric"`
}

type User struct {
	Id    string `json:"_id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
	Image string `json:"image,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChatUser is the identity presented to the chat provider.
type ChatUser struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type ChatAuth struct {
	UserData ChatUser `json:"userData"`
	Token    string   `json:"token"`
}

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
