package auth

import (
	"errors"
	"strings"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPhone = errors.New("phone number must contain 11 digits")
	ErrInvalidCode  = errors.New("code must be 4 digits")
	ErrEmptyName    = errors.New("name is required")
	ErrWrongStep    = errors.New("auth step out of order")
)

const (
	phoneDigits = 11
	codeLength  = 4
)

// DefaultWelcomeBonus is the balance a freshly registered user starts with.
const DefaultWelcomeBonus int64 = 450

type Step string

const (
	StepPhone Step = "phone"
	StepCode  Step = "code"
	StepName  Step = "name"
	StepDone  Step = "done"
)

// Flow is the mock phone sign-in: phone, then a 4-digit code, then a name.
// Failed submissions keep the flow on the current step.
type Flow struct {
	step         Step
	phone        string
	welcomeBonus int64
}

func NewFlow(welcomeBonus int64) *Flow {
	return &Flow{step: StepPhone, welcomeBonus: welcomeBonus}
}

func (f *Flow) Step() Step {
	return f.step
}

// Phone is the normalized phone accepted by SubmitPhone.
func (f *Flow) Phone() string {
	return f.phone
}

func (f *Flow) SubmitPhone(raw string) error {
	if f.step != StepPhone {
		return ErrWrongStep
	}
	phone := NormalizePhone(raw)
	if len(phone) != phoneDigits {
		return ErrInvalidPhone
	}
	f.phone = phone
	f.step = StepCode
	log.Info().Str("phone", FormatPhone(phone)).Msg("verification code sent")
	return nil
}

// SubmitCode accepts any 4 digits.
func (f *Flow) SubmitCode(code string) error {
	if f.step != StepCode {
		return ErrWrongStep
	}
	code = strings.TrimSpace(code)
	if len(code) != codeLength || strings.IndexFunc(code, func(r rune) bool { return !isDigit(r) }) >= 0 {
		return ErrInvalidCode
	}
	f.step = StepName
	return nil
}

func (f *Flow) SubmitName(name string) (*domain.User, error) {
	if f.step != StepName {
		return nil, ErrWrongStep
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	f.step = StepDone
	return &domain.User{Phone: f.phone, Name: name, BonusBalance: f.welcomeBonus}, nil
}

// Reset returns the flow to the phone step.
func (f *Flow) Reset() {
	f.step = StepPhone
	f.phone = ""
}

// NormalizePhone strips everything but digits.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// FormatPhone renders a phone as +7 (XXX) XXX-XX-XX. Partial input is
// formatted as far as it goes.
func FormatPhone(raw string) string {
	d := NormalizePhone(raw)
	n := len(d)
	switch {
	case n == 0:
		return ""
	case n <= 1:
		return "+7 (" + d
	case n <= 4:
		return "+7 (" + d[1:]
	case n <= 7:
		return "+7 (" + d[1:4] + ") " + d[4:]
	case n <= 9:
		return "+7 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	default:
		return "+7 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:9] + "-" + d[9:min(n, 11)]
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
