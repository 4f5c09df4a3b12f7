package bodygen

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// TemplateData is everything the static outreach templates can reference.
type TemplateData struct {
	RecruiterName string
	Company       string
	SenderName    string
	SenderEmail   string
}

// The static bodies are authored as markdown and rendered to HTML at send
// time. First contact and follow-up differ in wording only.
const firstContactMarkdown = `Dear {{.RecruiterName}},

I hope this email finds you well. I noticed that {{.Company}} is growing its
engineering team, and I would love to be considered for a role there.

I believe my background would be a strong fit, and I would appreciate the
chance to talk about any openings you are hiring for.

Best regards,

**{{.SenderName}}**
{{.SenderEmail}}`

const followUpMarkdown = `Dear {{.RecruiterName}},

I wanted to follow up on my previous email regarding opportunities at
{{.Company}}. I remain very interested and would be glad to share anything
else that would be helpful.

Thank you for your time.

Best regards,

**{{.SenderName}}**
{{.SenderEmail}}`

// Builder produces outreach email bodies: static markdown-backed templates
// and, when configured, AI-generated HTML. All output passes the same
// sanitization policy.
type Builder struct {
	md           goldmark.Markdown
	policy       *bluemonday.Policy
	firstContact *template.Template
	followUp     *template.Template
	ai           *AIClient // nil when no endpoint is configured
}

func New(ai *AIClient) *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
	)
	return &Builder{
		md:           md,
		policy:       bluemonday.UGCPolicy(),
		firstContact: template.Must(template.New("first_contact").Parse(firstContactMarkdown)),
		followUp:     template.Must(template.New("follow_up").Parse(followUpMarkdown)),
		ai:           ai,
	}
}

// Static renders the first-contact or follow-up body for data.
func (b *Builder) Static(data TemplateData, followUp bool) (string, error) {
	tmpl := b.firstContact
	if followUp {
		tmpl = b.followUp
	}

	var raw bytes.Buffer
	if err := tmpl.Execute(&raw, data); err != nil {
		return "", err
	}

	var html bytes.Buffer
	if err := b.md.Convert(raw.Bytes(), &html); err != nil {
		return "", err
	}

	return b.policy.Sanitize(strings.TrimSpace(html.String())), nil
}
