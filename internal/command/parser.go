package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotJSON means the reply is prose rather than a command object
	ErrNotJSON = errors.New("reply is not a JSON object")
	// ErrParse means the reply looked like a command but did not match any schema
	ErrParse = errors.New("unrecognized command payload")
)

var validate = validator.New()

// Parse classifies a raw assistant reply. It never fails: anything that is
// not a well-formed, known command comes back as PlainText carrying raw.
func Parse(raw string) Action {
	action, err := Decode(raw)
	if err != nil {
		return PlainText{Message: raw}
	}
	return action
}

// Decode is Parse with the reason a reply was not recognized as a command
func Decode(raw string) (Action, error) {
	cleaned := StripCodeFence(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, ErrNotJSON
	}

	var envelope struct {
		Action Kind `json:"action"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	switch envelope.Action {
	case KindCreateOrder:
		return decodeAs[CreateOrder](cleaned)
	case KindLookupProduct:
		return decodeAs[LookupProduct](cleaned)
	case KindUpdateStock:
		return decodeAs[UpdateStock](cleaned)
	case KindLookupCustomerHistory:
		return decodeAs[LookupCustomerHistory](cleaned)
	case KindGenerateReport:
		a, err := decodeAs[GenerateReport](cleaned)
		if err != nil {
			return nil, err
		}
		report := a.(GenerateReport)
		if report.Period == "" {
			report.Period = PeriodToday
		}
		return report, nil
	case "":
		return nil, fmt.Errorf("%w: missing action field", ErrParse)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrParse, envelope.Action)
	}
}

func decodeAs[T Action](payload string) (Action, error) {
	var a T
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := validate.Struct(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, a.Kind(), err)
	}
	return a, nil
}

// StripCodeFence trims whitespace and removes markdown code fences at
// either end, including an optional language tag such as ```json.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:nl]), "{") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(s)
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
