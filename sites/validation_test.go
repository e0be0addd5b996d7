package sites_test

import (
	"strings"
	"testing"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/internal/utils"
	"github.com/jrsteele09/orbithall-admin/sites"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sites.SiteCreateInput)
		invalid []string
	}{
		{"valid", func(*sites.SiteCreateInput) {}, nil},
		{"name at limit", func(in *sites.SiteCreateInput) { in.Name = strings.Repeat("가", 100) }, nil},
		{"name too long", func(in *sites.SiteCreateInput) { in.Name = strings.Repeat("a", 101) }, []string{"name"}},
		{"empty name", func(in *sites.SiteCreateInput) { in.Name = "" }, []string{"name"}},
		{"missing domain", func(in *sites.SiteCreateInput) { in.Domain = "" }, []string{"domain"}},
		{"relative domain", func(in *sites.SiteCreateInput) { in.Domain = "blog.example.com" }, []string{"domain"}},
		{"no origins", func(in *sites.SiteCreateInput) { in.CORSOrigins = []string{} }, []string{"corsOrigins"}},
		{"bad origin", func(in *sites.SiteCreateInput) { in.CORSOrigins = append(in.CORSOrigins, "nope") }, []string{"corsOrigins"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			err := in.Validate()
			if tc.invalid == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrValidation)
			var fieldErrs sites.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, len(tc.invalid))
			for _, field := range tc.invalid {
				require.Contains(t, fieldErrs, field)
			}
		})
	}
}

func TestUpdateValidation(t *testing.T) {
	require.NoError(t, sites.SiteUpdateInput{}.Validate())
	require.NoError(t, sites.SiteUpdateInput{IsActive: utils.Ptr(false)}.Validate())
	require.NoError(t, sites.SiteUpdateInput{CORSOrigins: []string{"http://localhost:3000"}}.Validate())
	require.Error(t, sites.SiteUpdateInput{Name: utils.Ptr("")}.Validate())
	require.Error(t, sites.SiteUpdateInput{CORSOrigins: []string{"ftp//x"}}.Validate())
}

func TestFieldErrorsMessage(t *testing.T) {
	err := sites.FieldErrors{"name": "required", "domain": "bad"}
	require.Equal(t, "validation failed: domain: bad; name: required", err.Error())
}
