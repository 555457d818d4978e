package domain

const (
	RoleMember  = "member"
	RoleAdmin   = "admin"
	RoleFinance = "finance"
)

// Ledger entry types. Balance is derived as sum(credits) - sum(debits);
// entries are never updated or deleted.
const (
	LedgerCredit = "credit"
	LedgerDebit  = "debit"
)

// Manual payment request lifecycle. approved and rejected are terminal.
const (
	ManualSubmitted   = "submitted"
	ManualUnderReview = "under_review"
	ManualApproved    = "approved"
	ManualRejected    = "rejected"
)

// Order lifecycle. Orders are created in awaiting_payment; checkout only
// normalizes pending orders forward.
const (
	OrderPending         = "pending"
	OrderAwaitingPayment = "awaiting_payment"
	OrderPaid            = "paid"
	OrderFulfilled       = "fulfilled"
)

const (
	ProductDraft     = "draft"
	ProductPublished = "published"
	ProductArchived  = "archived"
)

// UBI cycle states, strictly linear.
const (
	CycleDraft           = "draft"
	CycleComputed        = "computed"
	CyclePendingApproval = "pending_approval"
	CycleApproved        = "approved"
)

const (
	PayoutPending  = "pending"
	PayoutApproved = "approved"
)

const (
	EnrollmentActive   = "active"
	EnrollmentInactive = "inactive"
)

// Publication states shared by member-facing content: bulletins, courses and
// events all move between draft and published.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	RegistrationRegistered = "registered"
	RegistrationWaitlisted = "waitlisted"
	RegistrationCheckedIn  = "checked_in"
	RegistrationCanceled   = "canceled"
)

const (
	AcademyEnrolled   = "enrolled"
	AcademyWaitlisted = "waitlisted"
	AcademyCompleted  = "completed"
)

const (
	KycPending  = "pending"
	KycApproved = "approved"
	KycRejected = "rejected"
)

const (
	ShipmentPending   = "pending"
	ShipmentLabeled   = "labeled"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentCanceled  = "canceled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	MessagePending = "pending"
	MessageSent    = "sent"
	MessageFailed  = "failed"
)
