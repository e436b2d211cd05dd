// Package library defines the library registration flow: its four steps,
// their thresholds and the mapping from a wizard payload to a registration.
package library

import (
	"github.com/smartlib/libreg/internal/config"
	"github.com/smartlib/libreg/internal/wizard"
)

// Step keys, in wizard order.
const (
	StepDetails = "details"
	StepPicture = "picture"
	StepPolicy  = "policy"
	StepAccount = "account"
)

// SlotLogo is the upload slot of the picture step.
const SlotLogo = "logo"

// Field names.
const (
	FieldName          = "name"
	FieldAddress       = "address"
	FieldPhone         = "phone"
	FieldPenaltyPerDay = "penaltyPerDay"
	FieldBorrowLimit   = "borrowLimit"
	FieldUsername      = "username"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldConfirm       = "confirm"
)

// Thresholds are the minimum lengths enforced by the steps.
type Thresholds struct {
	MinName     int
	MinAddress  int
	MinUsername int
	MinPassword int
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{MinName: 2, MinAddress: 5, MinUsername: 3, MinPassword: 6}
}

// ThresholdsFromConfig reads limits from cfg.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		MinName:     cfg.MinNameLength,
		MinAddress:  cfg.MinAddressLength,
		MinUsername: cfg.MinUsernameLength,
		MinPassword: cfg.MinPasswordLength,
	}
}

// Steps builds the ordered step definitions.
func Steps(t Thresholds) []wizard.StepDefinition {
	return []wizard.StepDefinition{
		{
			Key:   StepDetails,
			Label: "Details",
			Validate: wizard.TextPresence(map[string]int{
				FieldName:    t.MinName,
				FieldAddress: t.MinAddress,
			}),
		},
		{
			Key:      StepPicture,
			Label:    "Picture",
			Validate: wizard.AssetPresence(SlotLogo),
			Slots:    []string{SlotLogo},
		},
		{
			Key:      StepPolicy,
			Label:    "Policy",
			Validate: wizard.NumericPolicy(FieldPenaltyPerDay, FieldBorrowLimit),
		},
		{
			Key:   StepAccount,
			Label: "Account",
			Validate: wizard.Credentials{
				UsernameField: FieldUsername,
				EmailField:    FieldEmail,
				PasswordField: FieldPassword,
				ConfirmField:  FieldConfirm,
				MinUsername:   t.MinUsername,
				MinPassword:   t.MinPassword,
			}.Rule(),
		},
	}
}

// Field describes one input of the form, for presentation layers.
type Field struct {
	Step        string
	Name        string
	Label       string
	Placeholder string
	Secret      bool
	Optional    bool
}

// Fields returns the text inputs of every step, in display order.
// The picture step has no text fields; it is driven by file selection.
func Fields() []Field {
	return []Field{
		{Step: StepDetails, Name: FieldName, Label: "Library name", Placeholder: "City Central Library"},
		{Step: StepDetails, Name: FieldAddress, Label: "Address", Placeholder: "12 Main Street"},
		{Step: StepDetails, Name: FieldPhone, Label: "Phone", Placeholder: "+1 555 0100", Optional: true},
		{Step: StepPolicy, Name: FieldPenaltyPerDay, Label: "Penalty per day", Placeholder: "0.50"},
		{Step: StepPolicy, Name: FieldBorrowLimit, Label: "Borrow limit", Placeholder: "5"},
		{Step: StepAccount, Name: FieldUsername, Label: "Username", Placeholder: "citylib"},
		{Step: StepAccount, Name: FieldEmail, Label: "Email", Placeholder: "admin@library.org"},
		{Step: StepAccount, Name: FieldPassword, Label: "Password", Secret: true},
		{Step: StepAccount, Name: FieldConfirm, Label: "Confirm password", Secret: true},
	}
}

// FieldsFor returns the fields of one step.
func FieldsFor(step string) []Field {
	var out []Field
	for _, f := range Fields() {
		if f.Step == step {
			out = append(out, f)
		}
	}
	return out
}
