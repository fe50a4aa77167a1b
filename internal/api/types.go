// Package api contains the typed resource clients for the OurTime backend
// plus the HTTP adapter they all share. The backend is the source of truth
// for every entity here; the client never derives counters locally.
package api

import "time"

// GroupType is the fixed enumeration of group categories.
type GroupType string

const (
	GroupCouple GroupType = "COUPLE"
	GroupFamily GroupType = "FAMILY"
	GroupFriend GroupType = "FRIEND"
	GroupTeam   GroupType = "TEAM"
	GroupEtc    GroupType = "ETC"
)

// GroupTypes lists the valid group types in display order.
var GroupTypes = []GroupType{GroupCouple, GroupFamily, GroupFriend, GroupTeam, GroupEtc}

// groupTypeLabels carries the localized display labels the service ships with.
var groupTypeLabels = map[GroupType]string{
	GroupCouple: "커플",
	GroupFamily: "가족",
	GroupFriend: "친구",
	GroupTeam:   "팀",
	GroupEtc:    "기타",
}

// Label returns the localized display label for the group type.
// Unknown values fall back to the ETC label.
func (t GroupType) Label() string {
	if l, ok := groupTypeLabels[t]; ok {
		return l
	}
	return groupTypeLabels[GroupEtc]
}

// Valid reports whether t is one of the fixed enumeration values.
func (t GroupType) Valid() bool {
	_, ok := groupTypeLabels[t]
	return ok
}

// InvitationStatus is the lifecycle state of a group invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// User is a server-side user record. Immutable from the client except via
// the explicit profile-update calls.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	UserTag      string `json:"userTag,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Group is a named collection of users sharing memories.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        GroupType `json:"type"`
	InviteCode  string    `json:"inviteCode"`
	Description string    `json:"description,omitempty"`
	GroupImage  string    `json:"groupImage,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   string    `json:"createdAt,omitempty"`
	UpdatedAt   string    `json:"updatedAt,omitempty"`
}

// Tag is referenced by name at memory creation; the server resolves or
// creates the record.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Memory is a pinned record of a visited location. LikeCount and
// CommentCount are server-maintained.
type Memory struct {
	ID           int64    `json:"id"`
	GroupID      int64    `json:"groupId"`
	User         User     `json:"user"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	LocationName string   `json:"locationName,omitempty"`
	VisitedAt    string   `json:"visitedAt"`
	ImageURLs    []string `json:"imageUrls"`
	Tags         []Tag    `json:"tags"`
	LikeCount    int      `json:"likeCount"`
	CommentCount int      `json:"commentCount"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// EditableBy reports whether the given viewer may edit this memory.
// This is a UX gate only; the backend enforces authorization authoritatively.
func (m Memory) EditableBy(userID int64) bool {
	return m.User.ID == userID
}

// Comment is a user comment on a memory.
type Comment struct {
	ID        int64  `json:"id"`
	MemoryID  int64  `json:"memoryId"`
	User      User   `json:"user"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Invitation is a pending request for a user to join a group.
type Invitation struct {
	ID              int64            `json:"id"`
	GroupID         int64            `json:"groupId"`
	GroupName       string           `json:"groupName"`
	InviterID       int64            `json:"inviterId"`
	InviterNickname string           `json:"inviterNickname"`
	Status          InvitationStatus `json:"status"`
	CreatedAt       string           `json:"createdAt,omitempty"`
	RespondedAt     string           `json:"respondedAt,omitempty"`
}

// AuthResponse is the payload of login/signup/refresh.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the signup payload.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required"`
}

// UpdateProfileRequest updates the caller's profile. Zero-value fields are
// omitted from the request body.
type UpdateProfileRequest struct {
	Nickname     string `json:"nickname,omitempty"`
	UserTag      string `json:"userTag,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// CreateGroupRequest creates a group, optionally inviting members by email.
type CreateGroupRequest struct {
	Name          string    `json:"name" validate:"required"`
	Type          GroupType `json:"type" validate:"required"`
	Description   string    `json:"description,omitempty"`
	InviteeEmails []string  `json:"inviteeEmails,omitempty" validate:"omitempty,dive,email"`
}

// UpdateGroupRequest carries partial group updates.
type UpdateGroupRequest struct {
	Name        string    `json:"name,omitempty"`
	Type        GroupType `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ImageFile is an image staged for upload: a filename plus its raw bytes.
type ImageFile struct {
	Name string
	Data []byte
}

// CreateMemoryRequest is the multipart payload for memory creation.
// GroupID, Title, and VisitedAt must be present before any network call is
// made. Coordinates are range-checked only; 0 is a valid decimal degree.
type CreateMemoryRequest struct {
	GroupID      int64       `validate:"required"`
	Title        string      `validate:"required"`
	Description  string      ``
	Latitude     float64     `validate:"latitude"`
	Longitude    float64     `validate:"longitude"`
	LocationName string      ``
	VisitedAt    string      `validate:"required"` // YYYY-MM-DD
	TagNames     []string    ``
	Images       []ImageFile ``
}

// UpdateMemoryRequest carries partial memory updates as JSON (images are
// not re-uploaded through this path).
type UpdateMemoryRequest struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
	VisitedAt    string   `json:"visitedAt,omitempty"`
	TagNames     []string `json:"tagNames,omitempty"`
}

// CreateCommentRequest creates a comment on a memory.
type CreateCommentRequest struct {
	MemoryID int64  `json:"memoryId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// VisitDateLayout is the wire format for visit dates.
const VisitDateLayout = "2006-01-02"

// ParseVisitDate parses a wire visit date, tolerating a trailing time part.
func ParseVisitDate(s string) (time.Time, error) {
	if len(s) > len(VisitDateLayout) {
		s = s[:len(VisitDateLayout)]
	}
	return time.Parse(VisitDateLayout, s)
}
