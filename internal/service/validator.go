package service

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Validator checks request DTOs and reports failures as domain.ValidationErrors keyed by
// the JSON field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	// Custom validators
	v.RegisterValidation("mobile", validateMobile)
	v.RegisterValidation("sex", validateSex)
	v.RegisterValidation("mmrc", validateMMRC)
	v.RegisterValidation("frequency", validateFrequency)
	v.RegisterValidation("comorbidity", validateCoMorbidity)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var out domain.ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "mobile":
		return "must be a 10-digit mobile number"
	case "sex":
		return "must be Male, Female or Other"
	case "mmrc":
		return "must be an mMRC grade between 0 and 4"
	case "frequency":
		return "unknown frequency"
	case "comorbidity":
		return "unknown co-morbidity"
	}
	return "is invalid"
}

func validateMobile(fl validator.FieldLevel) bool {
	return domain.ValidMobileID(fl.Field().String())
}

func validateSex(fl validator.FieldLevel) bool {
	return domain.Sex(fl.Field().String()).Valid()
}

func validateMMRC(fl validator.FieldLevel) bool {
	return clinical.ValidMMRC(fl.Field().String())
}

func validateFrequency(fl validator.FieldLevel) bool {
	return slices.Contains(domain.Frequencies, fl.Field().String())
}

func validateCoMorbidity(fl validator.FieldLevel) bool {
	return slices.Contains(domain.CoMorbidities, fl.Field().String())
}

// mergeValidation appends the field errors carried by err to errs. Any other error is
// returned unchanged.
func mergeValidation(errs *domain.ValidationErrors, err error) error {
	if err == nil {
		return nil
	}
	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		*errs = append(*errs, ve...)
		return nil
	}
	return err
}
