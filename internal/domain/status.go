package domain

// StatusCode is the Checkmk severity carried by test cases and transactions.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusWarning
	StatusCritical
	StatusUnknown
)

var statusNames = map[StatusCode]string{
	StatusOK:       "OK",
	StatusWarning:  "WARNING",
	StatusCritical: "CRITICAL",
	StatusUnknown:  "UNKNOWN",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "INVALID"
}

func (s StatusCode) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatusCode validates a raw state integer. field names the record
// attribute the value came from and is carried in the returned error.
func ParseStatusCode(code int, field string) (StatusCode, error) {
	s := StatusCode(code)
	if !s.Valid() {
		return StatusUnknown, &UnknownStatusCodeError{Code: code, Field: field}
	}
	return s, nil
}
