package pinchallenge

import (
	"time"

	"vethub-sync/internal/usecase/invoker"
)

// Button is one labelled click attempt in a cascade.
type Button struct {
	Label      string
	Timeout    time.Duration
	RetryCount int
}

func (b Button) options() invoker.Options {
	return invoker.Options{Timeout: b.Timeout, RetryCount: b.RetryCount}
}

type Config struct {
	// PINCells is the minimum number of single-character inputs that marks a
	// surface as a PIN form, and the number of digits typed.
	PINCells int

	Settle          time.Duration
	KeystrokeDelay  time.Duration
	DigitDelay      time.Duration
	ValidationDelay time.Duration
	PostClickDelay  time.Duration
	AutoSubmitWait  time.Duration
	ProbeTimeout    time.Duration

	Confirm []Button
	Skip    []Button

	// AutoSubmitMarkers are URL fragments present while the PIN page is up.
	AutoSubmitMarkers []string

	DebugDir       string
	ScreenshotName string
}

func DefaultConfig() Config {
	quick := func(label string) Button {
		return Button{Label: label, Timeout: 3 * time.Second, RetryCount: 1}
	}

	return Config{
		PINCells:        5,
		Settle:          2 * time.Second,
		KeystrokeDelay:  150 * time.Millisecond,
		DigitDelay:      200 * time.Millisecond,
		ValidationDelay: 1 * time.Second,
		PostClickDelay:  3 * time.Second,
		AutoSubmitWait:  5 * time.Second,
		ProbeTimeout:    1 * time.Second,
		Confirm: []Button{
			{Label: "Confirm PIN", Timeout: 10 * time.Second, RetryCount: 3},
			quick("Confirm"),
			quick("Submit"),
			quick("Continue"),
			quick("Done"),
			quick("OK"),
		},
		Skip: []Button{
			{Label: "Skip", Timeout: 5 * time.Second, RetryCount: 2},
			quick("Skip for 24 Hours"),
			quick("Skip for 24"),
			quick("Later"),
			quick("Not now"),
			quick("Cancel"),
		},
		AutoSubmitMarkers: []string{"pin", "set_up"},
		DebugDir:          ".",
		ScreenshotName:    "vetradar-pin-page-final-debug.png",
	}
}
