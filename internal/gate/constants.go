package gate

// Log messages
const (
	LogMsgGateBusy = "Action gate busy, ignoring duplicate submission"
)
