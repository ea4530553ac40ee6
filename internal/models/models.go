package models

import "time"

// Grant levels. Level 3 is the highest tier and gates user management.
const (
	GrantViewer = 1
	GrantEditor = 2
	GrantAdmin  = 3
)

// Activity models the soft-delete state of a record: either active or
// deleted at a known instant. Call sites that dereference a parent
// entity must check Active() before proceeding.
type Activity struct {
	deletedAt *time.Time
}

func ActiveState() Activity {
	return Activity{}
}

func DeletedState(at time.Time) Activity {
	return Activity{deletedAt: &at}
}

// ActivityFrom builds an Activity from a nullable column value.
func ActivityFrom(deletedAt *time.Time) Activity {
	return Activity{deletedAt: deletedAt}
}

func (a Activity) Active() bool {
	return a.deletedAt == nil
}

// DeletedAt returns the deletion instant; the bool is false while active.
func (a Activity) DeletedAt() (time.Time, bool) {
	if a.deletedAt == nil {
		return time.Time{}, false
	}
	return *a.deletedAt, true
}

// Column returns the nullable value for persistence.
func (a Activity) Column() *time.Time {
	return a.deletedAt
}

// User holds PII (name, surname, email) encrypted at rest. EmailDigest
// is a keyless digest of the lowercased plaintext email used for the
// uniqueness constraint, since the ciphertext is nonce-randomized.
type User struct {
	ID           int
	UUID         string
	NameEnc      string
	SurnameEnc   string
	AccountName  string
	Salt         string
	PasswordHash string
	EmailEnc     string
	EmailDigest  string
	GrantID      int
	CreatedAt    time.Time
	State        Activity
}

// LoginEvent is an append-only audit row for a login attempt.
type LoginEvent struct {
	ID          int
	UserID      int
	LoginAt     time.Time
	LoginStatus int
	Token       string
	TokenExpiry time.Time
}

type Campaign struct {
	ID          int       `json:"id"`
	Name        string    `json:"campaign_name"`
	Description string    `json:"campaign_description"`
	CreatedAt   time.Time `json:"created_datetime"`
	StartAt     time.Time `json:"start_datetime"`
	EndAt       time.Time `json:"end_datetime"`
	State       Activity  `json:"-"`
}

type Group struct {
	ID              int       `json:"id"`
	CampaignID      int       `json:"campaign_id"`
	CampaignGroupID int       `json:"campaign_group_id"`
	Name            string    `json:"group_name"`
	Description     string    `json:"group_description"`
	CreatedAt       time.Time `json:"created_datetime"`
	State           Activity  `json:"-"`
}

// Contact identity is the caller-supplied UUID. Contacts are the one
// entity that is hard-deleted.
type Contact struct {
	UUID        string    `json:"uuid"`
	CampaignID  int       `json:"campaign_id"`
	GroupID     int       `json:"group_id"`
	ScheduledAt time.Time `json:"scheduled_datetime"`
}

// Pixel represents one trackable image embed: one contact, one position
// in its send sequence. (ContactUUID, SequenceNumber) is unique.
type Pixel struct {
	UUID           string `json:"uuid"`
	ContactUUID    string `json:"contact_uuid"`
	SequenceNumber int    `json:"contact_pixel_number"`
}

// View records that a pixel was fetched at least once. At most one view
// per pixel ever exists; the views table enforces it.
type View struct {
	ID        int       `json:"id"`
	PixelUUID string    `json:"pixel_uuid"`
	ViewedAt  time.Time `json:"view_datetime"`
}

// CampaignOpenCount is an aggregate used by the stats snapshot job.
type CampaignOpenCount struct {
	CampaignID   int
	CampaignName string
	Opens        int
}

// ViewReportRow is one line of the exported views report.
type ViewReportRow struct {
	CampaignID     int
	CampaignName   string
	GroupID        int
	ContactUUID    string
	PixelUUID      string
	SequenceNumber int
	ViewedAt       time.Time
}
