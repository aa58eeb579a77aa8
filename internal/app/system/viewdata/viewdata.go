// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/reelsite/internal/app/system/prefs"
	"github.com/dalemusser/reelsite/internal/app/system/sitedata"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// NavLink is one entry in the site header.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// BaseVM contains common fields for all public pages.
// Embed this struct in feature-specific view models.
//
// Usage:
//
//	type portfolioData struct {
//	    viewdata.BaseVM
//	    Items []cardVM
//	}
//
//	data := portfolioData{BaseVM: viewdata.New(r, "Portfolio")}
type BaseVM struct {
	SiteName string
	Profile  sitedata.Profile

	// Presentation settings from the prefs cookie
	Theme     string
	NextTheme string

	Title       string
	CurrentPath string
	Nav         []NavLink
	Year        int

	// CSRFField is the hidden input for POST forms.
	CSRFField template.HTML
	CSRFToken string
}

var (
	mu      sync.RWMutex
	dataset = sitedata.Default()
)

// Init installs the site dataset used for the header, footer and contact
// details. Call once at startup.
func Init(ds *sitedata.Dataset) {
	if ds == nil {
		return
	}
	mu.Lock()
	dataset = ds
	mu.Unlock()
}

// Dataset returns the installed site dataset.
func Dataset() *sitedata.Dataset {
	mu.RLock()
	defer mu.RUnlock()
	return dataset
}

var navLinks = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "About", Href: "/about"},
	{Label: "Services", Href: "/services"},
	{Label: "Portfolio", Href: "/portfolio"},
	{Label: "Videos", Href: "/videos"},
	{Label: "Pricing", Href: "/pricing"},
	{Label: "Contact", Href: "/contact"},
}

// New creates a BaseVM for a page titled title.
func New(r *http.Request, title string) BaseVM {
	ds := Dataset()
	theme := prefs.FromContext(r.Context()).Theme
	path := httpnav.CurrentPath(r)

	nav := make([]NavLink, len(navLinks))
	for i, l := range navLinks {
		l.Active = l.Href == path
		nav[i] = l
	}

	return BaseVM{
		SiteName:    ds.Profile.Name,
		Profile:     ds.Profile,
		Theme:       string(theme),
		NextTheme:   string(theme.Toggle()),
		Title:       title,
		CurrentPath: path,
		Nav:         nav,
		Year:        time.Now().Year(),
		CSRFField:   csrf.TemplateField(r),
		CSRFToken:   csrf.Token(r),
	}
}
