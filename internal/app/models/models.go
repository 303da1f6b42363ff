package models

// ModerationStatus is the lifecycle stage of a Work.
type ModerationStatus string

const (
	ModerationDraft    ModerationStatus = "draft"
	ModerationPending  ModerationStatus = "pending_review"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ModerationAction is a terminal moderation decision.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

// InviteRole is the role granted by an invitation code.
type InviteRole string

const (
	InviteRoleEarly  InviteRole = "early"
	InviteRoleMentor InviteRole = "mentor_invite"
)

// NotificationType classifies a notification row.
type NotificationType string

const (
	NotificationLike         NotificationType = "like"
	NotificationComment      NotificationType = "comment"
	NotificationWorkApproved NotificationType = "work_approved"
	NotificationWorkRejected NotificationType = "work_rejected"
)

// WorkCategories are the categories available during the beta.
var WorkCategories = []string{
	"Branding",
	"Ilustración",
	"Tipografía",
	"Editorial",
	"Packaging",
	"UI/UX",
	"Fotografía",
	"Motion",
	"Otro",
}

// ProfileCategories are the design disciplines selectable during onboarding.
var ProfileCategories = []string{
	"Branding",
	"Ilustración",
	"Tipografía",
	"Editorial",
	"Packaging",
	"UI/UX",
	"Fotografía",
	"Motion",
	"3D",
	"Dirección de Arte",
}

// CommentCategories are the structured-feedback tags a comment can carry.
var CommentCategories = []string{
	"Concepto",
	"Ejecución",
	"Tipografía",
	"Color",
	"Composición",
	"Originalidad",
}

// CareerYears are the accepted career-year labels.
var CareerYears = []string{
	"1er año",
	"2do año",
	"3er año",
	"4to año",
	"5to año",
	"Egresado",
	"Autodidacta",
}

// Limits aligned with the CHECK constraints in the schema.
const (
	TitleMin       = 1
	TitleMax       = 150
	DescriptionMin = 120
	TagsMax        = 8
	ImagesMin      = 1
	ImagesMax      = 6
	ImageMaxBytes  = 5 * 1024 * 1024

	UsernameMin    = 3
	UsernameMax    = 30
	BioMin         = 80
	BioMax         = 220
	CategoriesMin  = 1
	CategoriesMax  = 2
	AvatarMaxBytes = 2 * 1024 * 1024

	CommentMinLength      = 100
	RejectionNoteMinChars = 10
)

// Founder works-manager filters.
const (
	WorksFilterAll      = "all"
	WorksFilterApproved = "approved"
	WorksFilterArchived = "archived"
)
