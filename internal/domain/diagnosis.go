package domain

import (
	"fmt"
	"slices"
)

// Diagnosis is a category/subtype pair plus the one detail its subtype allows: a CTD
// subtype for CTD-ILD, a stage for Sarcoidosis, nothing otherwise. Values are built by
// the constructors below, so a CTD subtype on a non-CTD diagnosis cannot be expressed.
type Diagnosis struct {
	category         string
	subtype          string
	ctdType          string
	sarcoidosisStage string
}

// NewDiagnosis builds a diagnosis without subtype detail. Category may be a short code;
// an empty category is inferred from the subtype.
func NewDiagnosis(category, subtype string) (Diagnosis, error) {
	return ParseDiagnosis(category, subtype, "", "")
}

// NewCTDILDDiagnosis builds an ILD/CTD-ILD diagnosis; ctdType may be empty when not yet known.
func NewCTDILDDiagnosis(ctdType string) (Diagnosis, error) {
	return ParseDiagnosis(CategoryILD, SubtypeCTDILD, ctdType, "")
}

// NewSarcoidosisDiagnosis builds an ILD/Sarcoidosis diagnosis; stage may be empty.
func NewSarcoidosisDiagnosis(stage string) (Diagnosis, error) {
	return ParseDiagnosis(CategoryILD, SubtypeSarcoidosis, "", stage)
}

// ParseDiagnosis validates flattened diagnosis fields as submitted by a form.
func ParseDiagnosis(category, subtype, ctdType, stage string) (Diagnosis, error) {
	var errs ValidationErrors

	if subtype == "" {
		errs.Add("diagnosis", "is required")
		return Diagnosis{}, errs
	}

	cat, ok := resolveCategory(category, subtype)
	if !ok {
		errs.Add("diagnosisCategory", fmt.Sprintf("unknown category %q", category))
		return Diagnosis{}, errs
	}
	if !slices.Contains(SubtypesFor(cat), subtype) {
		errs.Add("diagnosis", fmt.Sprintf("%q is not a subtype of %s", subtype, cat))
	}

	if ctdType != "" {
		if subtype != SubtypeCTDILD {
			errs.Add("ctdType", "only allowed for "+SubtypeCTDILD)
		} else if !slices.Contains(CTDTypes, ctdType) {
			errs.Add("ctdType", fmt.Sprintf("unknown CTD subtype %q", ctdType))
		}
	}
	if stage != "" {
		if subtype != SubtypeSarcoidosis {
			errs.Add("sarcoidosisStage", "only allowed for "+SubtypeSarcoidosis)
		} else if !slices.Contains(SarcoidosisStages, stage) {
			errs.Add("sarcoidosisStage", fmt.Sprintf("unknown stage %q", stage))
		}
	}
	if len(errs) > 0 {
		return Diagnosis{}, errs
	}

	return Diagnosis{category: cat, subtype: subtype, ctdType: ctdType, sarcoidosisStage: stage}, nil
}

// lenientDiagnosis is used when reading persisted records: unknown subtypes are kept,
// a missing category defaults from the subtype (ILD when unknown), and detail fields that
// do not belong to the subtype are dropped.
func lenientDiagnosis(category, subtype, ctdType, stage string) Diagnosis {
	cat, ok := resolveCategory(category, subtype)
	if !ok {
		cat = CategoryILD
	}
	d := Diagnosis{category: cat, subtype: subtype}
	switch subtype {
	case SubtypeCTDILD:
		d.ctdType = ctdType
	case SubtypeSarcoidosis:
		d.sarcoidosisStage = stage
	}
	return d
}

func resolveCategory(category, subtype string) (string, bool) {
	if category != "" {
		return NormalizeCategory(category)
	}
	if c, ok := InferCategory(subtype); ok {
		return c, true
	}
	return "", false
}

func (d Diagnosis) Category() string { return d.category }
func (d Diagnosis) Subtype() string  { return d.subtype }
func (d Diagnosis) IsZero() bool     { return d == Diagnosis{} }

// CTDType is set only for CTD-ILD.
func (d Diagnosis) CTDType() (string, bool) {
	return d.ctdType, d.subtype == SubtypeCTDILD && d.ctdType != ""
}

// SarcoidosisStage is set only for Sarcoidosis.
func (d Diagnosis) SarcoidosisStage() (string, bool) {
	return d.sarcoidosisStage, d.subtype == SubtypeSarcoidosis && d.sarcoidosisStage != ""
}
