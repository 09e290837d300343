package validate

import "github.com/gym-wars/internal/domain"

// Form names, also used as metric labels.
const (
	FormGym         = "gym"
	FormVendor      = "vendor"
	FormGymRequest  = "gym-request"
	FormParticipant = "participant"
)

// Booth sizes offered to vendors.
var BoothSizes = []string{"10x10", "10x20", "20x20"}

// GymRegistration is the gym signup schema.
func GymRegistration() Schema {
	return Schema{
		Form: FormGym,
		Fields: []Field{
			{Key: "gymName", Required: true, Checks: []Check{Text("gymName")}},
			{Key: "city", Required: true, Checks: []Check{Text("city")}},
			{Key: "state", Required: true, Checks: []Check{StateCode()}},
			{Key: "firstName", Required: true, Checks: []Check{Text("firstName")}},
			{Key: "lastName", Required: true, Checks: []Check{Text("lastName")}},
			{Key: "email", Required: true, Checks: []Check{Email()}},
			{Key: "phone", Required: true, Checks: []Check{Phone()}},
			{Key: "agree", Required: true, Checks: []Check{MustAgree("You must agree to the participation agreement")}},
			{Key: "address1", Checks: []Check{Text("address1")}},
			{Key: "address2", Checks: []Check{Text("address2")}},
			{Key: "zip", Checks: []Check{MinLength(3, "Enter a valid ZIP/postcode")}},
			{Key: "website", Checks: []Check{URL()}},
			{Key: "eventDateISO", Checks: []Check{DateISO()}},
		},
	}
}

// VendorRegistration is the vendor booth signup schema.
func VendorRegistration() Schema {
	return Schema{
		Form: FormVendor,
		Fields: []Field{
			{Key: "businessName", Required: true, Checks: []Check{Text("businessName")}},
			{Key: "email", Required: true, Checks: []Check{Email()}},
			{Key: "city", Required: true, Checks: []Check{Text("city")}},
			{Key: "state", Required: true, Checks: []Check{StateCode()}},
			{Key: "boothSize", Required: true, Checks: []Check{OneOf("Select a booth size", BoothSizes...)}},
			{Key: "agree", Required: true, Checks: []Check{MustAgree("You must agree to the vendor terms")}},
			{Key: "phone", Checks: []Check{Phone()}},
			{Key: "contactFirstName", Checks: []Check{Text("contactFirstName")}},
			{Key: "contactLastName", Checks: []Check{Text("contactLastName")}},
			{Key: "notes", Checks: []Check{Text("notes")}},
		},
	}
}

// GymRequest is the "request a gym" schema.
func GymRequest() Schema {
	return Schema{
		Form: FormGymRequest,
		Fields: []Field{
			{Key: "gymName", Required: true, Checks: []Check{Text("gymName")}},
			{Key: "city", Required: true, Checks: []Check{Text("city")}},
			{Key: "state", Required: true, Checks: []Check{StateCode()}},
			{Key: "contactEmail", Required: true, Checks: []Check{Email()}},
			{Key: "contactName", Checks: []Check{Text("contactName")}},
			{Key: "notes", Checks: []Check{Text("notes")}},
		},
	}
}

// ParticipantRules turns optional participant fields into required ones.
type ParticipantRules struct {
	RequirePhone            bool
	RequireEmergencyContact bool
}

var roleCheck = OneOf("Role must be Trainer or Member", string(domain.RoleTrainer), string(domain.RoleMember))

// ParticipantCreate is the trainer/member signup schema.
func ParticipantCreate(rules ParticipantRules) Schema {
	return Schema{
		Form: FormParticipant,
		Fields: []Field{
			{Key: "email", Required: true, Checks: []Check{Email()}},
			{Key: "firstName", Required: true, Checks: []Check{Text("firstName")}},
			{Key: "lastName", Required: true, Checks: []Check{Text("lastName")}},
			{Key: "role", Required: true, Checks: []Check{roleCheck}},
			{Key: "phone", Required: rules.RequirePhone, Checks: []Check{Phone()}},
			{Key: "emergencyContact", Required: rules.RequireEmergencyContact, Checks: []Check{Text("emergencyContact")}},
			{Key: "emergencyContactPhone", Required: rules.RequireEmergencyContact, Checks: []Check{Phone()}},
			{Key: "gymId", Checks: []Check{Text("gymId")}},
			{Key: "gymName", Checks: []Check{Text("gymName")}},
			{Key: "joinCurrentEvent", Checks: []Check{Bool("joinCurrentEvent")}},
		},
	}
}

// ParticipantUpdate only requires the email that locates the record.
func ParticipantUpdate() Schema {
	return Schema{
		Form: FormParticipant,
		Fields: []Field{
			{Key: "email", Required: true, Checks: []Check{Email()}},
			{Key: "firstName", Checks: []Check{Text("firstName")}},
			{Key: "lastName", Checks: []Check{Text("lastName")}},
			{Key: "role", Strict: true, Checks: []Check{roleCheck}},
			{Key: "phone", Checks: []Check{Phone()}},
			{Key: "emergencyContact", Checks: []Check{Text("emergencyContact")}},
			{Key: "emergencyContactPhone", Checks: []Check{Phone()}},
			{Key: "gymId", Checks: []Check{Text("gymId")}},
			{Key: "gymName", Checks: []Check{Text("gymName")}},
			{Key: "joinCurrentEvent", Checks: []Check{Bool("joinCurrentEvent")}},
		},
	}
}
