package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/orbithall-admin/internal/utils"
	"github.com/jrsteele09/orbithall-admin/sites"
)

// siteForm is the state of the create and edit forms, kept to re-render after an error.
type siteForm struct {
	Name        string
	Domain      string
	IsActive    bool
	CORSOrigins []string
}

// OriginsText is the textarea value, one origin per line.
func (f siteForm) OriginsText() string {
	return strings.Join(f.CORSOrigins, "\n")
}

func siteFormFrom(site *sites.Site) siteForm {
	return siteForm{
		Name:        site.Name,
		Domain:      site.Domain,
		IsActive:    site.IsActive,
		CORSOrigins: append([]string(nil), site.CORSOrigins...),
	}
}

// parseSiteForm reads the posted form. CORS origins may come as one textarea with an
// origin per line or as repeated fields; they are trimmed and de-duplicated.
func parseSiteForm(r *http.Request) (siteForm, error) {
	if err := r.ParseForm(); err != nil {
		return siteForm{}, err
	}

	var origins []string
	for _, value := range r.PostForm["corsOrigins"] {
		origins = append(origins, utils.SplitLines(value)...)
	}

	return siteForm{
		Name:        r.PostFormValue("name"),
		Domain:      strings.TrimSpace(r.PostFormValue("domain")),
		IsActive:    r.PostForm.Has("isActive"),
		CORSOrigins: utils.UniqueTrimmed(origins),
	}, nil
}

func (f siteForm) createInput() sites.SiteCreateInput {
	return sites.SiteCreateInput{
		Name:        f.Name,
		Domain:      f.Domain,
		CORSOrigins: f.CORSOrigins,
	}
}

func (f siteForm) updateInput() sites.SiteUpdateInput {
	return sites.SiteUpdateInput{
		Name:        utils.Ptr(f.Name),
		IsActive:    utils.Ptr(f.IsActive),
		CORSOrigins: f.CORSOrigins,
	}
}
