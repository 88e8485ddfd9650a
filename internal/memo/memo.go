package memo

import (
	"fmt"
	"strings"

	"github.com/osse101/farmclock/internal/domain"
)

// Verb is the leading field of a memo; it selects the contract handler
type Verb string

const (
	VerbStake    Verb = "stake"
	VerbPlant    Verb = "plant"
	VerbDeposit  Verb = "deposit"
	VerbRecharge Verb = "recharge"
	VerbPropose  Verb = "propose"
	VerbVote     Verb = "vote"
)

// schema is the canonical field order for one verb. The order is part of the
// wire contract and is shared by every call site.
type schema struct {
	fields   []string
	variadic bool // last field may repeat
}

var schemas = map[Verb]schema{
	VerbStake:    {fields: []string{"farm_id", "asset_id"}, variadic: true},
	VerbPlant:    {fields: []string{"plot_id", "slot"}},
	VerbDeposit:  {fields: []string{"farm_id"}},
	VerbRecharge: {fields: []string{"farm_id"}},
	VerbPropose:  {fields: []string{"actor", "collection", "template_id", "raw_fee", "raw_reward", "cap"}},
	VerbVote:     {fields: []string{"proposal_id", "choice"}},
}

// ArityError is returned when a memo is built with the wrong number of fields
type ArityError struct {
	Verb     Verb
	Want     int
	Got      int
	Variadic bool
}

func (e *ArityError) Error() string {
	qualifier := "exactly"
	if e.Variadic {
		qualifier = "at least"
	}
	return fmt.Sprintf("%s: %s wants %s %d fields, got %d", domain.ErrMsgMemoArity, e.Verb, qualifier, e.Want, e.Got)
}

// Unwrap exposes domain.ErrMemoArity (and through it domain.ErrInvalidInput)
func (e *ArityError) Unwrap() error {
	return domain.ErrMemoArity
}

// Fields returns the canonical field names for a verb
func Fields(verb Verb) []string {
	s, ok := schemas[verb]
	if !ok {
		return nil
	}
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// BuildMemo joins the verb and its parts with Delimiter after validating arity
// and that no part is empty or contains the delimiter.
func BuildMemo(verb Verb, parts ...string) (string, error) {
	s, ok := schemas[verb]
	if !ok {
		return "", fmt.Errorf("%w: "+ErrFmtUnknownVerb, domain.ErrInvalidInput, verb)
	}

	want := len(s.fields)
	if (!s.variadic && len(parts) != want) || (s.variadic && len(parts) < want) {
		return "", &ArityError{Verb: verb, Want: want, Got: len(parts), Variadic: s.variadic}
	}

	for i, p := range parts {
		name := s.fields[min(i, want-1)]
		if p == "" || strings.Contains(p, Delimiter) || strings.ContainsAny(p, " \t\r\n") {
			return "", fmt.Errorf("%w: "+ErrFmtInvalidField, domain.ErrInvalidInput, name, p)
		}
	}

	return string(verb) + Delimiter + strings.Join(parts, Delimiter), nil
}

// ParseMemo splits a memo back into its verb and fields, validating arity
func ParseMemo(memo string) (Verb, []string, error) {
	head, rest, found := strings.Cut(memo, Delimiter)
	verb := Verb(head)
	s, ok := schemas[verb]
	if !ok {
		return "", nil, fmt.Errorf("%w: "+ErrFmtUnknownVerb, domain.ErrInvalidInput, head)
	}

	var parts []string
	if found {
		parts = strings.Split(rest, Delimiter)
	}
	want := len(s.fields)
	if (!s.variadic && len(parts) != want) || (s.variadic && len(parts) < want) {
		return "", nil, &ArityError{Verb: verb, Want: want, Got: len(parts), Variadic: s.variadic}
	}
	return verb, parts, nil
}
