package handler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/dto"
)

var registerOnce sync.Once

// RegisterValidators installs the custom request rules on gin's validator engine.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterStructValidation(validateSubmitCheckIn, dto.SubmitCheckInRequest{})
	})
	return err
}

// validateSubmitCheckIn requires a pain location whenever pain is reported.
func validateSubmitCheckIn(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.SubmitCheckInRequest)
	if req.PainLevel == nil || *req.PainLevel == 0 {
		return
	}
	if req.PainLocation == nil || strings.TrimSpace(*req.PainLocation) == "" {
		sl.ReportError(req.PainLocation, "pain_location", "PainLocation", "required_with_pain", "")
	}
}

// validationDetails renders validator errors as "field: rule" pairs.
func validationDetails(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
