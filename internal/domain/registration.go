package domain

import "time"

// Role of a registered participant.
type Role string

const (
	RoleTrainer Role = "Trainer"
	RoleMember  Role = "Member"
)

// Participant is a trainer or member registration, unique by lowercased email.
type Participant struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	FirstName             string    `json:"firstName"`
	LastName              string    `json:"lastName"`
	Phone                 string    `json:"phone,omitempty"`
	Role                  Role      `json:"role"`
	EmergencyContact      string    `json:"emergencyContact,omitempty"`
	EmergencyContactPhone string    `json:"emergencyContactPhone,omitempty"`
	GymID                 string    `json:"gymId,omitempty"`
	GymName               string    `json:"gymName,omitempty"`
	Events                []string  `json:"events"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ParticipantInput is the body of a participant creation request.
type ParticipantInput struct {
	Email                 string `json:"email"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Phone                 string `json:"phone"`
	Role                  Role   `json:"role"`
	EmergencyContact      string `json:"emergencyContact"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
	GymID                 string `json:"gymId"`
	GymName               string `json:"gymName"`
	JoinCurrentEvent      bool   `json:"joinCurrentEvent"`
}

// ParticipantPatch is the body of a participant update request. Email locates
// the record and is never changed; nil fields are left untouched.
type ParticipantPatch struct {
	Email                 string  `json:"email"`
	FirstName             *string `json:"firstName"`
	LastName              *string `json:"lastName"`
	Phone                 *string `json:"phone"`
	Role                  *Role   `json:"role"`
	EmergencyContact      *string `json:"emergencyContact"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`
	GymID                 *string `json:"gymId"`
	GymName               *string `json:"gymName"`
	JoinCurrentEvent      bool    `json:"joinCurrentEvent"`
}

// GymRegistration is a gym signing up to compete.
type GymRegistration struct {
	ID           string    `json:"id"`
	GymName      string    `json:"gymName"`
	Address1     string    `json:"address1,omitempty"`
	Address2     string    `json:"address2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip,omitempty"`
	Website      string    `json:"website,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	EventDateISO string    `json:"eventDateISO,omitempty"`
	Agree        bool      `json:"agree"`
	RosterLink   string    `json:"rosterLink"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Slug is the identifier shared by the gym's roster link and leaderboard row.
func (g GymRegistration) Slug() string {
	return Slugify(g.GymName)
}

// RosterLinkFor builds the trainers/members page link for a gym.
func RosterLinkFor(slug string) string {
	return "/trainers-members?gym=" + slug
}

// VendorRegistration is a vendor booth signup.
type VendorRegistration struct {
	ID               string    `json:"id"`
	BusinessName     string    `json:"businessName"`
	ContactFirstName string    `json:"contactFirstName,omitempty"`
	ContactLastName  string    `json:"contactLastName,omitempty"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	BoothSize        string    `json:"boothSize"`
	Notes            string    `json:"notes,omitempty"`
	Agree            bool      `json:"agree"`
	CreatedAt        time.Time `json:"createdAt"`
}

// GymRequest asks organizers to reach out to a gym that is not registered yet.
type GymRequest struct {
	ID           string    `json:"id"`
	GymName      string    `json:"gymName"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactEmail string    `json:"contactEmail"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GymOption is the dropdown shape of a registered gym.
type GymOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
