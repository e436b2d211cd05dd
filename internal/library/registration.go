package library

import (
	"fmt"
	"strings"

	"github.com/smartlib/libreg/internal/wizard"
)

// Form field names understood by the registration backend.
const (
	FormLibraryName    = "library_name"
	FormLibraryAddress = "library_address"
	FormLibraryPhone   = "library_phone"
	FormPenaltyPerDay  = "penalty_per_day"
	FormBorrowLimit    = "borrow_limit"
	FormUsername       = "username"
	FormEmail          = "email"
	FormPassword       = "password"
	FormLogo           = "logo"
)

// Registration is a completed library registration.
type Registration struct {
	LibraryName    string
	LibraryAddress string
	LibraryPhone   string
	PenaltyPerDay  string
	BorrowLimit    string
	Username       string
	Email          string
	Password       string
	Logo           *wizard.Asset
}

// FromPayload maps a submitted wizard payload to a registration.
func FromPayload(p wizard.Payload) Registration {
	r := Registration{
		LibraryName:    strings.TrimSpace(p.Field(StepDetails, FieldName)),
		LibraryAddress: strings.TrimSpace(p.Field(StepDetails, FieldAddress)),
		LibraryPhone:   strings.TrimSpace(p.Field(StepDetails, FieldPhone)),
		PenaltyPerDay:  strings.TrimSpace(p.Field(StepPolicy, FieldPenaltyPerDay)),
		BorrowLimit:    strings.TrimSpace(p.Field(StepPolicy, FieldBorrowLimit)),
		Username:       p.Field(StepAccount, FieldUsername),
		Email:          strings.TrimSpace(p.Field(StepAccount, FieldEmail)),
		Password:       p.Field(StepAccount, FieldPassword),
	}
	if logo, ok := p.Asset(StepPicture, SlotLogo); ok {
		r.Logo = &logo
	}
	return r
}

// FormFields returns the text fields keyed by backend form name.
// The logo travels separately as a file part.
func (r Registration) FormFields() map[string]string {
	return map[string]string{
		FormLibraryName:    r.LibraryName,
		FormLibraryAddress: r.LibraryAddress,
		FormLibraryPhone:   r.LibraryPhone,
		FormPenaltyPerDay:  r.PenaltyPerDay,
		FormBorrowLimit:    r.BorrowLimit,
		FormUsername:       r.Username,
		FormEmail:          r.Email,
		FormPassword:       r.Password,
	}
}

// Summary renders the registration as markdown. The password is never included.
func (r Registration) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.LibraryName)
	fmt.Fprintf(&b, "| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&b, "| Address | %s |\n", escapeCell(r.LibraryAddress))
	phone := r.LibraryPhone
	if phone == "" {
		phone = "not provided"
	}
	fmt.Fprintf(&b, "| Phone | %s |\n", escapeCell(phone))
	fmt.Fprintf(&b, "| Penalty per day | %s |\n", escapeCell(r.PenaltyPerDay))
	fmt.Fprintf(&b, "| Borrow limit | %s |\n", escapeCell(r.BorrowLimit))
	fmt.Fprintf(&b, "| Username | %s |\n", escapeCell(r.Username))
	fmt.Fprintf(&b, "| Email | %s |\n", escapeCell(r.Email))
	if r.Logo != nil {
		fmt.Fprintf(&b, "| Logo | %s (%s, %d bytes) |\n", escapeCell(r.Logo.Name), r.Logo.MediaType, len(r.Logo.Data))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
