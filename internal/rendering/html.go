package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl styles/*.css
var assets embed.FS

var pageTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.New("resume.html.tmpl").ParseFS(assets, "templates/resume.html.tmpl")
})

// ResolveTemplate maps a template id to a built-in one, falling back to
// the default for unknown ids.
func ResolveTemplate(id string) string {
	if types.IsKnownTemplate(id) {
		return id
	}
	return types.DefaultTemplate
}

// Stylesheet returns the CSS of a built-in template.
func Stylesheet(id string) (string, error) {
	id = ResolveTemplate(id)
	css, err := assets.ReadFile("styles/" + id + ".css")
	if err != nil {
		return "", &TemplateError{Template: id, Message: "stylesheet not found", Cause: err}
	}
	return string(css), nil
}

// RenderHTML renders the resume as a standalone HTML page using its
// selected template. Empty sections are left out.
func RenderHTML(r types.Resume, loc locale.Locale) (string, error) {
	tmpl, err := pageTemplate()
	if err != nil {
		return "", &TemplateError{Template: "resume.html.tmpl", Message: "failed to parse template", Cause: err}
	}

	id := ResolveTemplate(r.SelectedTemplate)
	css, err := Stylesheet(id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildView(r, loc, id, css)); err != nil {
		return "", &TemplateError{Template: id, Message: "failed to execute template", Cause: err}
	}
	return buf.String(), nil
}

type pageView struct {
	Lang     string
	Title    string
	Template string
	CSS      template.CSS
	Sidebar  bool

	Name     string
	Initials string
	Contacts []contactView
	Summary  string

	Labels         map[string]string
	Work           []workView
	Education      []educationView
	Technical      []levelView
	Soft           []levelView
	Languages      []levelView
	Projects       []projectView
	Certifications []certificationView
}

type contactView struct {
	Kind  string
	Label string
	Value string
	Href  string
}

type workView struct {
	Position         string
	Company          string
	Location         string
	Dates            string
	Responsibilities []string
	Achievements     []string
}

type educationView struct {
	Degree      string
	Institution string
	Location    string
	Dates       string
	GPA         string
}

type levelView struct {
	Name    string
	Level   string
	Percent int
}

type projectView struct {
	Name         string
	Description  string
	Technologies string
	URL          string
	Dates        string
}

type certificationView struct {
	Name   string
	Issuer string
	Date   string
	URL    string
}

var labelKeys = []string{
	"section.summary", "section.experience", "section.education", "section.skills",
	"section.languages", "section.projects", "section.certifications",
	"work.responsibilities", "work.achievements", "education.gpa",
	"skills.technical", "skills.soft", "projects.technologies", "document.title",
}

var levelPercent = map[string]int{
	"beginner": 25, "basic": 25,
	"intermediate": 50, "conversational": 50,
	"advanced": 75, "fluent": 75,
	"expert": 100, "native": 100,
}

func buildView(r types.Resume, loc locale.Locale, id, css string) pageView {
	labels := make(map[string]string, len(labelKeys))
	for _, k := range labelKeys {
		labels[k] = locale.Label(loc, k)
	}

	p := r.PersonalInfo
	name := p.FullName()
	title := labels["document.title"]
	if name != "" {
		title = name + " – " + title
	}

	v := pageView{
		Lang:     string(loc),
		Title:    title,
		Template: id,
		// stylesheets are embedded assets, never user input
		CSS:      template.CSS(css),
		Sidebar:  id == types.TemplateCreative,
		Name:     name,
		Initials: initials(p),
		Contacts: contacts(p, loc),
		Summary:  strings.TrimSpace(p.Summary),
		Labels:   labels,
	}

	for _, w := range r.WorkExperience {
		v.Work = append(v.Work, workView{
			Position:         w.Position,
			Company:          w.Company,
			Location:         w.Location,
			Dates:            locale.DateRange(loc, w.StartDate, w.EndDate, w.Current),
			Responsibilities: nonEmpty(w.Responsibilities),
			Achievements:     nonEmpty(w.Achievements),
		})
	}
	for _, e := range r.Education {
		v.Education = append(v.Education, educationView{
			Degree:      strings.Join(nonEmpty([]string{e.Degree, e.Field}), " – "),
			Institution: e.Institution,
			Location:    e.Location,
			Dates:       locale.DateRange(loc, e.StartDate, e.EndDate, false),
			GPA:         e.GPA,
		})
	}
	for _, s := range r.Skills {
		lv := levelView{
			Name:    s.Name,
			Level:   locale.Label(loc, "skills.proficiency."+string(s.Proficiency)),
			Percent: percent(string(s.Proficiency)),
		}
		if s.Category == types.SkillSoft {
			v.Soft = append(v.Soft, lv)
		} else {
			v.Technical = append(v.Technical, lv)
		}
	}
	for _, l := range r.Languages {
		v.Languages = append(v.Languages, levelView{
			Name:    l.Name,
			Level:   locale.Label(loc, "languages.proficiency."+string(l.Proficiency)),
			Percent: percent(string(l.Proficiency)),
		})
	}
	for _, pr := range r.Projects {
		v.Projects = append(v.Projects, projectView{
			Name:         pr.Name,
			Description:  pr.Description,
			Technologies: strings.Join(nonEmpty(pr.Technologies), ", "),
			URL:          pr.URL,
			Dates:        locale.DateRange(loc, pr.StartDate, pr.EndDate, false),
		})
	}
	for _, c := range r.Certifications {
		v.Certifications = append(v.Certifications, certificationView{
			Name:   c.Name,
			Issuer: c.Issuer,
			Date:   locale.FormatYearMonth(loc, c.Date),
			URL:    c.URL,
		})
	}
	return v
}

func contacts(p types.PersonalInfo, loc locale.Locale) []contactView {
	var out []contactView
	add := func(kind, value, href string) {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, contactView{Kind: kind, Label: locale.Label(loc, "personal."+kind), Value: value, Href: href})
		}
	}
	add("email", p.Email, "mailto:"+p.Email)
	add("phone", p.Phone, "")
	add("location", p.Location, "")
	add("linkedin", p.LinkedIn, p.LinkedIn)
	add("website", p.Website, p.Website)
	return out
}

func initials(p types.PersonalInfo) string {
	var sb strings.Builder
	for _, n := range []string{p.FirstName, p.LastName} {
		for _, r := range strings.TrimSpace(n) {
			sb.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return sb.String()
}

func percent(level string) int {
	if p, ok := levelPercent[level]; ok {
		return p
	}
	return 50
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
