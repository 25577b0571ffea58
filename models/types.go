package models

import "time"

// Response marks
const (
	MarkAttend  = "o"
	MarkMaybe   = "d"
	MarkDecline = "x"
)

// Candidate status constants (iCalendar STATUS values)
const (
	StatusConfirmed = "CONFIRMED"
	StatusTentative = "TENTATIVE"
	StatusCancelled = "CANCELLED"
)

// Participant status constants
const (
	ParticipantActive   = "active"
	ParticipantArchived = "archived"
)

// Share token kinds
const (
	TokenAdmin       = "admin"
	TokenParticipant = "participant"
)

// Entity kind names, used in conflict and not-found reporting
const (
	KindProject     = "project"
	KindMeta        = "meta"
	KindCandidate   = "candidate"
	KindParticipant = "participant"
	KindResponse    = "response"
	KindShareTokens = "shareTokens"
)

// Domain types

type ProjectMeta struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DefaultTimeZone string    `json:"default_time_zone"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

type Candidate struct {
	ID          string     `json:"id"`
	CalendarUID string     `json:"calendar_uid"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	TimeZone    string     `json:"time_zone"`
	Sequence    int        `json:"sequence"`
	DTStamp     time.Time  `json:"dtstamp"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

type Participant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Status      string    `json:"status"`
	AccessToken string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// Response is one participant's mark for one candidate. The pair
// (ParticipantID, CandidateID) is its identity; a pair with no Response
// row means "pending" and is never stored explicitly.
type Response struct {
	ParticipantID string    `json:"participant_id"`
	CandidateID   string    `json:"candidate_id"`
	Mark          string    `json:"mark"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

type ShareToken struct {
	Token           string     `json:"token"`
	URL             string     `json:"url"`
	IssuedAt        time.Time  `json:"issued_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	LastGeneratedBy string     `json:"last_generated_by,omitempty"`
}

// ShareTokens holds both token slots. Version is shared across the two
// slots: any rotation or invalidation of either bumps it.
type ShareTokens struct {
	Admin       *ShareToken `json:"admin,omitempty"`
	Participant *ShareToken `json:"participant,omitempty"`
	Version     int         `json:"version"`
}

// Versions carries every current version counter of a project so that a
// snapshot read is enough to target subsequent writes.
type Versions struct {
	Meta             int `json:"metaVersion"`
	Candidates       int `json:"candidatesVersion"`
	CandidatesList   int `json:"candidatesListVersion"`
	Participants     int `json:"participantsVersion"`
	ParticipantsList int `json:"participantsListVersion"`
	Responses        int `json:"responsesVersion"`
	ShareTokens      int `json:"shareTokensVersion"`
}

type ProjectSnapshot struct {
	Meta         ProjectMeta   `json:"meta"`
	Candidates   []Candidate   `json:"candidates"`
	Participants []Participant `json:"participants"`
	Responses    []Response    `json:"responses"`
	ShareTokens  ShareTokens   `json:"share_tokens"`
	Versions     Versions      `json:"versions"`
}

// Request types

type CreateProjectRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DefaultTimeZone string `json:"default_time_zone"`
}

type MetaInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DefaultTimeZone string `json:"default_time_zone"`
	Version         int    `json:"version"`
}

type CandidateInput struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	TimeZone    string     `json:"time_zone"`
	Version     int        `json:"version,omitempty"`
}

type ParticipantInput struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
	Status  string `json:"status"`
	Version int    `json:"version,omitempty"`
}

type ResponseInput struct {
	Mark    string `json:"mark"`
	Comment string `json:"comment"`
	Version int    `json:"version,omitempty"`
}

type ReorderRequest struct {
	OrderedIDs  []string `json:"ordered_ids"`
	ListVersion int      `json:"list_version"`
}

type VersionedRequest struct {
	Version int `json:"version"`
}

// Response types

type CreateProjectResponse struct {
	Snapshot ProjectSnapshot `json:"snapshot"`
	AdminURL string          `json:"admin_url"`
	ShareURL string          `json:"share_url"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Latest  any      `json:"latest,omitempty"`
}
