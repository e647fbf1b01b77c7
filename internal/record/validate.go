package record

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// ErrValidationFailed is the only failure a section operation can report.
var ErrValidationFailed = errors.New("validation failed")

type ProblemKind string

const (
	ProblemMissing   ProblemKind = "missing"
	ProblemMalformed ProblemKind = "malformed"
	ProblemUnknown   ProblemKind = "unknown"
)

type Problem struct {
	Field  string      `json:"field"`
	Label  string      `json:"label"`
	Kind   ProblemKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

func (p Problem) String() string {
	if p.Detail != "" {
		return p.Label + " (" + p.Detail + ")"
	}
	return p.Label
}

// ValidationError lists every problem found in one draft.
type ValidationError struct {
	Section  string    `json:"section"`
	Problems []Problem `json:"problems"`
}

func (e *ValidationError) Error() string {
	var missing, malformed []string
	for _, p := range e.Problems {
		switch p.Kind {
		case ProblemMissing:
			missing = append(missing, p.String())
		default:
			malformed = append(malformed, p.String())
		}
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "please fill all mandatory fields marked with *: "+strings.Join(missing, ", "))
	}
	if len(malformed) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(malformed, ", "))
	}
	msg := strings.Join(parts, "; ")
	if e.Section != "" {
		return e.Section + ": " + msg
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Missing returns the names of required fields left empty.
func (e *ValidationError) Missing() []string {
	var out []string
	for _, p := range e.Problems {
		if p.Kind == ProblemMissing {
			out = append(out, p.Field)
		}
	}
	return out
}

var (
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	numberRe  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	mobileRe  = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Validate checks values against the schema. It returns nil or a *ValidationError.
func (s Schema) Validate(values map[string]string) error {
	var problems []Problem
	for _, f := range s.Fields {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			if f.RequiredFor(values) {
				problems = append(problems, Problem{Field: f.Name, Label: f.Label, Kind: ProblemMissing})
			}
			continue
		}
		if detail := checkValue(f, v); detail != "" {
			problems = append(problems, Problem{Field: f.Name, Label: f.Label, Kind: ProblemMalformed, Detail: detail})
		}
	}
	for k := range values {
		if _, ok := s.Field(k); !ok {
			problems = append(problems, Problem{Field: k, Label: k, Kind: ProblemUnknown, Detail: "not a field of " + s.Name})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Section: s.Name, Problems: problems}
}

func checkValue(f Field, v string) string {
	switch f.Kind {
	case KindNumber:
		if numberRe.MatchString(v) {
			return ""
		}
		if strings.HasPrefix(v, "-") && numberRe.MatchString(v[1:]) {
			return "must not be negative"
		}
		return "expected a number"
	case KindDate:
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return "expected YYYY-MM-DD"
		}
	case KindChoice, KindYesNo:
		for _, o := range f.options() {
			if o == v {
				return ""
			}
		}
		return "expected one of " + strings.Join(f.options(), ", ")
	case KindEmail:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "expected an email address"
		}
	case KindPhone:
		if !digitsRe.MatchString(v) || len(v) < 6 || len(v) > 15 {
			return "expected 6-15 digits"
		}
	case KindMobile:
		if !mobileRe.MatchString(v) {
			return "expected a 10 digit mobile number"
		}
	case KindPincode:
		if !pincodeRe.MatchString(v) {
			return "expected a 6 digit pin code"
		}
	}
	return ""
}
