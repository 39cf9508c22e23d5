package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"goodsgo/internal/models"
	"goodsgo/internal/utils"
)

const (
	msgRequiredSelect     = "選択してください"
	msgQuantity           = "1以上選択してください"
	msgTimeRange          = "終了時刻は開始時刻より後の時間を指定してください"
	msgDuplicatedLocation = "搬入元と搬入先には異なる場所を指定してください"
	msgNoteTooLong        = "1000文字以内で入力してください"
)

const (
	tagTimeOfDay        = "timeofday"
	tagDistinctLocation = "distinct_location"
	tagTimeRange        = "time_range"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// field errors are keyed by the json name the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(tagTimeOfDay, func(fl validator.FieldLevel) bool {
		_, ok := utils.ParseTimeOfDay(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(taskCrossFieldRules, models.TaskInput{})
	registerAuthRules(v)
	return v
}

// taskCrossFieldRules only compares values that are individually valid, so an
// empty select reports "required" alone.
func taskCrossFieldRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.TaskInput)

	if in.FromLocationID != "" && in.FromLocationID == in.ToLocationID {
		sl.ReportError(in.ToLocationID, "toLocationId", "ToLocationID", tagDistinctLocation, "")
	}

	start, okStart := utils.ParseTimeOfDay(in.ScheduledStartTime)
	end, okEnd := utils.ParseTimeOfDay(in.ScheduledEndTime)
	if okStart && okEnd && end <= start {
		sl.ReportError(in.ScheduledEndTime, "scheduledEndTime", "ScheduledEndTime", tagTimeRange, "")
	}
}

// NormalizeTaskInput trims identifiers, times and the note.
func NormalizeTaskInput(in models.TaskInput) models.TaskInput {
	in.LeaderUserID = strings.TrimSpace(in.LeaderUserID)
	in.FromLocationID = strings.TrimSpace(in.FromLocationID)
	in.ToLocationID = strings.TrimSpace(in.ToLocationID)
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.ScheduledStartTime = strings.TrimSpace(in.ScheduledStartTime)
	in.ScheduledEndTime = strings.TrimSpace(in.ScheduledEndTime)
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		in.Note = &note
	}
	return in
}

// ValidateTaskInput normalizes in and checks it. Create and update share it.
// A nil map means the input is valid.
func ValidateTaskInput(in models.TaskInput) (models.TaskInput, map[string][]string) {
	in = NormalizeTaskInput(in)

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// only reachable with a misconfigured validator
		return in, map[string][]string{"": {err.Error()}}
	}

	fieldErrors := map[string][]string{}
	for _, fe := range verrs {
		field := fe.Field()
		msg := taskFieldMessage(field, fe.Tag())
		if !slices.Contains(fieldErrors[field], msg) {
			fieldErrors[field] = append(fieldErrors[field], msg)
		}
	}
	return in, fieldErrors
}

// TaskInputTypeErrors turns a JSON type mismatch (a fractional quantity, a
// string day) into field errors merged with the rules the rest of the
// decoded input breaks. ok is false for any other decode error.
func TaskInputTypeErrors(decodeErr error, in models.TaskInput) (fieldErrors map[string][]string, ok bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(decodeErr, &typeErr) || typeErr.Field == "" {
		return nil, false
	}
	_, fieldErrors = ValidateTaskInput(in)
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	field := typeErr.Field
	if msg := taskFieldMessage(field, ""); !slices.Contains(fieldErrors[field], msg) {
		fieldErrors[field] = append(fieldErrors[field], msg)
	}
	return fieldErrors, true
}

func taskFieldMessage(field, tag string) string {
	switch tag {
	case tagDistinctLocation:
		return msgDuplicatedLocation
	case tagTimeRange:
		return msgTimeRange
	}
	switch field {
	case "quantity":
		return msgQuantity
	case "note":
		return msgNoteTooLong
	}
	return msgRequiredSelect
}
