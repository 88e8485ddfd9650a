package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns payload as T. In-process publishers hand over the
// struct or a pointer to it; anything else, such as a map decoded from JSON,
// is converted with a JSON round trip.
func DecodePayload[T any](payload interface{}) (T, error) {
	switch v := payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var out T
	raw, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayload, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayload, err)
	}
	return out, nil
}
