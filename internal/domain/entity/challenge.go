package entity

type ChallengeState string

const (
	ChallengeScanning      ChallengeState = "scanning"
	ChallengeEnteringPIN   ChallengeState = "entering_pin"
	ChallengeConfirmingPIN ChallengeState = "confirming_pin"
	ChallengeSuccess       ChallengeState = "success"
	ChallengeSkipped       ChallengeState = "skipped"
	ChallengeFailed        ChallengeState = "failed"
)

// Acceptable reports whether the login may proceed after this state.
func (s ChallengeState) Acceptable() bool {
	return s == ChallengeSuccess || s == ChallengeSkipped
}

type ChallengeOutcome struct {
	State         ChallengeState `json:"state"`
	Via           string         `json:"via,omitempty"`
	Surface       string         `json:"surface,omitempty"`
	CellsFound    int            `json:"cells_found"`
	DigitsEntered int            `json:"digits_entered"`
	Screenshot    string         `json:"screenshot,omitempty"`
}
