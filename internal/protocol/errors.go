package protocol

// Rejection reasons. The set is closed: every COMMAND_REJECTED event carries
// exactly one of these plus a free-text detail.
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonInvalidArgument = "INVALID_ARGUMENT"
	ReasonInvalidState    = "INVALID_STATE"
)

var knownReasons = map[string]struct{}{
	ReasonNotFound:        {},
	ReasonInvalidArgument: {},
	ReasonInvalidState:    {},
}

func IsKnownReason(reason string) bool {
	if reason == "" {
		return true
	}
	_, ok := knownReasons[reason]
	return ok
}
