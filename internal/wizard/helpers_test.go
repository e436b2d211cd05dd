package wizard

import (
	"errors"
	"fmt"
)

// fakePreviews records every handle it hands out and revokes.
type fakePreviews struct {
	next     int
	live     map[PreviewHandle]bool
	revoked  []PreviewHandle
	failNext bool
}

func newFakePreviews() *fakePreviews {
	return &fakePreviews{live: make(map[PreviewHandle]bool)}
}

func (f *fakePreviews) Create(a Asset) (PreviewHandle, error) {
	if f.failNext {
		f.failNext = false
		return "", errors.New("out of handles")
	}
	f.next++
	h := PreviewHandle(fmt.Sprintf("blob:%d", f.next))
	f.live[h] = true
	return h, nil
}

func (f *fakePreviews) Revoke(h PreviewHandle) {
	delete(f.live, h)
	f.revoked = append(f.revoked, h)
}

func png(name string) Asset {
	return Asset{Name: name, MediaType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

// testSteps mirrors the library registration flow with small thresholds.
func testSteps() []StepDefinition {
	return []StepDefinition{
		{
			Key:      "details",
			Label:    "Details",
			Validate: TextPresence(map[string]int{"name": 2, "address": 5}),
		},
		{
			Key:      "picture",
			Label:    "Picture",
			Validate: AssetPresence("logo"),
			Slots:    []string{"logo"},
		},
		{
			Key:      "policy",
			Label:    "Policy",
			Validate: NumericPolicy("penaltyPerDay", "borrowLimit"),
		},
		{
			Key:   "account",
			Label: "Account",
			Validate: Credentials{
				UsernameField: "username",
				EmailField:    "email",
				PasswordField: "password",
				ConfirmField:  "confirm",
				MinUsername:   3,
				MinPassword:   6,
			}.Rule(),
		},
	}
}

func fillAll(c *Controller) error {
	c.SetStepData(0, map[string]string{"name": "City Library", "address": "12 Main Street"})
	if _, err := c.Stage("logo", png("logo.png")); err != nil {
		return err
	}
	c.SetStepData(2, map[string]string{"penaltyPerDay": "0.5", "borrowLimit": "3"})
	c.SetStepData(3, map[string]string{
		"username": "citylib",
		"email":    "admin@city.org",
		"password": "secret1",
		"confirm":  "secret1",
	})
	return nil
}
