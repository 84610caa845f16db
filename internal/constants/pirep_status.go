package constants

type (
	PirepStatus string
	EventAction string
)

const (
	PirepStatusPending  PirepStatus = "pending"
	PirepStatusApproved PirepStatus = "approved"
	PirepStatusDenied   PirepStatus = "denied"
)

const (
	EventActionCreated  EventAction = "created"
	EventActionEdited   EventAction = "edited"
	EventActionApproved EventAction = "approved"
	EventActionDenied   EventAction = "denied"
)

func (s PirepStatus) String() string { return string(s) }

func (a EventAction) String() string { return string(a) }

// Validation bounds that are not operator-configurable
const (
	MaxFlightNumberLength = 10
	MaxCommentsLength     = 1000
	MaxDeniedReasonLength = 500

	DefaultPirepListLimit = 50
	MaxPirepListLimit     = 200
)
