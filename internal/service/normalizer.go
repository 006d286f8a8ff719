package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/injury-triage-server/internal/domain"
)

// classificationDefaults is the safety net applied to fields the classifier
// left out. It is the whole default table: one value per canonical field.
var classificationDefaults = domain.InjuryClassification{
	Bleeding:       false,
	InjuryType:     domain.InjuryUnknown,
	InjuryLocation: domain.LocationUnknown,
	SeverityLevel:  3,
	RequiresICU:    false,
	Confidence:     domain.ConfidenceLow,
}

// DefaultClassification returns the record produced from an empty response.
func DefaultClassification() domain.InjuryClassification {
	return classificationDefaults
}

// NormalizeClassification merges a partial classification over the default
// table. Present fields pass through untouched: values are neither validated
// nor clamped, so a severity of 7 stays 7.
func NormalizeClassification(raw *domain.RawClassification) domain.InjuryClassification {
	out := classificationDefaults
	if raw == nil {
		return out
	}

	mergeField(&out.Bleeding, raw.Bleeding)
	mergeField(&out.InjuryType, raw.InjuryType)
	mergeField(&out.InjuryLocation, raw.InjuryLocation)
	mergeField(&out.SeverityLevel, raw.SeverityLevel)
	mergeField(&out.RequiresICU, raw.RequiresICU)
	mergeField(&out.Confidence, raw.Confidence)

	return out
}

func mergeField[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ParseRawClassification decodes the classifier's JSON document. The
// document must be an object; fields holding values of the wrong JSON type
// make the whole response malformed.
func ParseRawClassification(data []byte) (*domain.RawClassification, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedResponse)
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", domain.ErrMalformedResponse)
	}

	var raw domain.RawClassification
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &raw, nil
}
