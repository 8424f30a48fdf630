package locale

// translations maps label keys to their English and German text.
var translations = map[string][2]string{
	"section.summary":        {"Professional Summary", "Berufliche Zusammenfassung"},
	"section.experience":     {"Work Experience", "Berufserfahrung"},
	"section.education":      {"Education", "Bildung"},
	"section.skills":         {"Skills", "Fähigkeiten"},
	"section.languages":      {"Languages", "Sprachen"},
	"section.projects":       {"Projects", "Projekte"},
	"section.certifications": {"Certifications", "Zertifizierungen"},

	"work.responsibilities": {"Responsibilities", "Verantwortlichkeiten"},
	"work.achievements":     {"Achievements", "Erfolge"},

	"education.gpa": {"GPA", "Note"},

	"skills.technical":                {"Technical Skills", "Technische Fähigkeiten"},
	"skills.soft":                     {"Soft Skills", "Soziale Kompetenzen"},
	"skills.proficiency.beginner":     {"Beginner", "Anfänger"},
	"skills.proficiency.intermediate": {"Intermediate", "Fortgeschritten"},
	"skills.proficiency.advanced":     {"Advanced", "Sehr gut"},
	"skills.proficiency.expert":       {"Expert", "Experte"},

	"languages.proficiency.basic":          {"Basic", "Grundkenntnisse"},
	"languages.proficiency.conversational": {"Conversational", "Unterhaltung"},
	"languages.proficiency.fluent":         {"Fluent", "Fließend"},
	"languages.proficiency.native":         {"Native", "Muttersprache"},

	"projects.technologies": {"Technologies", "Technologien"},

	"personal.email":    {"Email", "E-Mail"},
	"personal.phone":    {"Phone", "Telefon"},
	"personal.location": {"Location", "Ort"},
	"personal.linkedin": {"LinkedIn", "LinkedIn"},
	"personal.website":  {"Website", "Website"},

	"templates.modern":   {"Modern", "Modern"},
	"templates.classic":  {"Classic", "Klassisch"},
	"templates.minimal":  {"Minimal", "Minimal"},
	"templates.creative": {"Creative", "Kreativ"},

	"date.present": {"Present", "Heute"},

	"document.title": {"Resume", "Lebenslauf"},
}
