package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var seriesIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		d := fl.Field().String()
		return d == "," || d == ";"
	})
	_ = v.RegisterValidation("seriesid", func(fl validator.FieldLevel) bool {
		return seriesIDPattern.MatchString(fl.Field().String())
	})

	// Report yaml key names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// Validate checks the configuration and returns an error describing every
// invalid field. Unlike ValidateConfiguration, failures here prevent loading.
func (conf *Configuration) Validate() error {
	var problems []string

	if err := newValidator().Struct(conf); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	seen := make(map[string]bool)
	for _, aux := range conf.Data.Auxiliary {
		for _, s := range aux.Series {
			if seen[s.ID] {
				problems = append(problems, fmt.Sprintf("duplicate series id %q", s.ID))
			}
			seen[s.ID] = true
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Configuration.")
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s (got %q)", field, fe.Tag(), fe.Param(), fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("%s failed %s (got %q)", field, fe.Tag(), fmt.Sprint(fe.Value()))
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings that do not prevent loading.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	start, end, err := conf.ViewRange()
	if err == nil && end.Before(start) {
		warnings = append(warnings, fmt.Sprintf("view end %s is before view start %s; the default view will be empty", conf.View.End, conf.View.Start))
	}

	if conf.Data.Events.File == "" {
		warnings = append(warnings, "no events table configured; no event markers will be shown")
	}

	files := make(map[string]bool)
	for _, file := range conf.Data.Files() {
		if files[file] {
			warnings = append(warnings, fmt.Sprintf("file %s is configured more than once", file))
		}
		files[file] = true
	}

	return warnings
}
