package enums

// PollState tracks where a payment confirmation loop is in its lifecycle.
type PollState string

const (
	PollStateIdle     PollState = "idle"
	PollStatePolling  PollState = "polling"
	PollStateResolved PollState = "resolved"
)

// String implements fmt.Stringer.
func (p PollState) String() string {
	return string(p)
}
