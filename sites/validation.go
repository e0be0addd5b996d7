package sites

import (
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
)

const maxNameLength = 100

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return apperrors.ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool {
	return target == apperrors.ErrValidation
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Validate checks a create payload.
func (in SiteCreateInput) Validate() error {
	errs := FieldErrors{}
	validateName(errs, in.Name)
	switch {
	case in.Domain == "":
		errs["domain"] = "Domain is required"
	case !isURL(in.Domain):
		errs["domain"] = "Enter a valid URL"
	}
	validateOrigins(errs, in.CORSOrigins)
	return errs.orNil()
}

// Validate checks the fields present in an update payload.
func (in SiteUpdateInput) Validate() error {
	errs := FieldErrors{}
	if in.Name != nil {
		validateName(errs, *in.Name)
	}
	if in.CORSOrigins != nil {
		validateOrigins(errs, in.CORSOrigins)
	}
	return errs.orNil()
}

func validateName(errs FieldErrors, name string) {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs["name"] = "Site name is required"
	case n > maxNameLength:
		errs["name"] = "Site name must be at most 100 characters"
	}
}

func validateOrigins(errs FieldErrors, origins []string) {
	if len(origins) == 0 {
		errs["corsOrigins"] = "Add at least one CORS origin"
		return
	}
	for _, origin := range origins {
		if !isURL(origin) {
			errs["corsOrigins"] = "Enter a valid URL: " + origin
			return
		}
	}
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
