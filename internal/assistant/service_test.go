package assistant

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply    string
	err      error
	requests []llm.Request
	closed   bool
}

func (c *fakeClient) GenerateJSON(_ context.Context, req llm.Request) (string, error) {
	c.requests = append(c.requests, req)
	return c.reply, c.err
}

func (c *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

type fakeFactory struct {
	client *fakeClient
	err    error
	keys   []string
}

func (f *fakeFactory) build(_ context.Context, key string) (llm.Client, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func newService(reply string, defaultKey string) (*Service, *fakeFactory) {
	f := &fakeFactory{client: &fakeClient{reply: reply}}
	return New(f.build, defaultKey), f
}

func optimizedResume(t *testing.T) string {
	t.Helper()
	r := types.EmptyResume()
	r.PersonalInfo = types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Summary: "Tailored summary"}
	r.WorkExperience = []types.WorkExperience{{
		ID: "w1", Company: "Analytical Engines", Position: "Engineer", StartDate: "1842-01",
		Responsibilities: []string{"Wrote Note G"}, Achievements: []string{},
	}}
	r.Skills = []types.Skill{{ID: "s1", Name: "Go", Category: types.SkillTechnical, Proficiency: types.SkillExpert}}
	r.SelectedTemplate = types.TemplateClassic
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return string(data)
}

func seededStore() *store.Store {
	st := store.New()
	st.UpdatePersonalInfo(types.PersonalInfo{FirstName: "Grace"})
	st.AddSkill(types.Skill{ID: "old", Name: "COBOL", Category: types.SkillTechnical, Proficiency: types.SkillAdvanced})
	st.SetStep(store.StepSkills)
	return st
}

func TestOptimize_Success(t *testing.T) {
	svc, f := newService(optimizedResume(t), "default-key")
	st := seededStore()

	got, err := svc.Optimize(context.Background(), st, OptimizeInput{
		JobDescription: "  Senior Go engineer  ",
		Locale:         locale.German,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.PersonalInfo.FirstName)
	snap := st.Snapshot()
	assert.Equal(t, *got, snap.Resume)
	assert.Equal(t, store.StepSkills, snap.CurrentStep)
	assert.Equal(t, types.TemplateClassic, snap.Resume.SelectedTemplate)

	require.Len(t, f.client.requests, 1)
	req := f.client.requests[0]
	assert.Equal(t, llm.TierAdvanced, req.Tier)
	assert.Contains(t, req.System, "German")
	assert.Contains(t, req.System, `"$schema"`)
	assert.Contains(t, req.Prompt, "Senior Go engineer")
	assert.Contains(t, req.Prompt, `"COBOL"`)
	assert.Equal(t, []string{"default-key"}, f.keys)
	assert.True(t, f.client.closed)
}

func TestOptimize_RequestKeyOverridesDefault(t *testing.T) {
	svc, f := newService(optimizedResume(t), "default-key")

	_, err := svc.Optimize(context.Background(), store.New(), OptimizeInput{JobDescription: "job", APIKey: "request-key"})
	require.NoError(t, err)
	assert.Equal(t, []string{"request-key"}, f.keys)
}

func TestOptimize_Failures(t *testing.T) {
	tests := []struct {
		name     string
		in       OptimizeInput
		key      string
		reply    string
		replyErr error
		check    func(t *testing.T, err error)
		calls    int
	}{
		{
			name: "empty job description",
			in:   OptimizeInput{JobDescription: "   "},
			key:  "k",
			check: func(t *testing.T, err error) {
				var e *InputError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name: "missing credential",
			in:   OptimizeInput{JobDescription: "job"},
			check: func(t *testing.T, err error) {
				var e *MissingCredentialError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:     "collaborator failure",
			in:       OptimizeInput{JobDescription: "job"},
			key:      "k",
			replyErr: errors.New("quota exceeded"),
			calls:    1,
			check: func(t *testing.T, err error) {
				var e *CollaboratorError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, OpOptimize, e.Op)
				assert.Contains(t, err.Error(), "quota exceeded")
			},
		},
		{
			name:  "reply is not JSON",
			in:    OptimizeInput{JobDescription: "job"},
			key:   "k",
			reply: "I am sorry, I cannot do that.",
			calls: 1,
			check: func(t *testing.T, err error) {
				var e *CollaboratorError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:  "reply is a JSON array",
			in:    OptimizeInput{JobDescription: "job"},
			key:   "k",
			reply: `[1, 2]`,
			calls: 1,
			check: func(t *testing.T, err error) {
				var e *CollaboratorError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:  "reply fails the schema",
			in:    OptimizeInput{JobDescription: "job"},
			key:   "k",
			reply: `{"personalInfo": {"email": "not-an-email"}, "skills": [{"id": "s", "name": "Go", "category": "hard", "proficiency": "expert"}]}`,
			calls: 1,
			check: func(t *testing.T, err error) {
				var e *schemas.ValidationError
				require.ErrorAs(t, err, &e)
				fields := make([]string, 0, len(e.Errors))
				for _, fe := range e.Errors {
					fields = append(fields, fe.Field)
				}
				assert.Contains(t, fields, "personalInfo.email")
				assert.Contains(t, fields, "skills[0].category")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFactory{client: &fakeClient{reply: tt.reply, err: tt.replyErr}}
			svc := New(f.build, tt.key)
			st := seededStore()
			before := st.Snapshot()

			got, err := svc.Optimize(context.Background(), st, tt.in)
			require.Error(t, err)
			assert.Nil(t, got)
			tt.check(t, err)

			assert.Equal(t, before, st.Snapshot(), "store must be unchanged")
			assert.Len(t, f.client.requests, tt.calls)
		})
	}
}

func TestOptimize_FactoryError(t *testing.T) {
	f := &fakeFactory{err: llm.ErrMissingAPIKey}
	svc := New(f.build, "k")

	_, err := svc.Optimize(context.Background(), store.New(), OptimizeInput{JobDescription: "job"})

	var e *CollaboratorError
	require.ErrorAs(t, err, &e)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestParseText_PartialReplyUsesDefaults(t *testing.T) {
	reply := "```json\n" + `{
		"personalInfo": {"firstName": "Ada"},
		"skills": [{"id": "s1", "name": "Mathematics", "category": "technical", "proficiency": "expert"}]
	}` + "\n```"
	svc, f := newService(reply, "k")
	st := seededStore()
	st.SetTemplate(types.TemplateMinimal)

	_, err := svc.ParseText(context.Background(), st, "Ada Lovelace, mathematician", locale.English, "")
	require.NoError(t, err)

	r := st.Resume()
	assert.Equal(t, types.PersonalInfo{FirstName: "Ada"}, r.PersonalInfo)
	require.Len(t, r.Skills, 1)
	assert.Equal(t, "Mathematics", r.Skills[0].Name)
	assert.Empty(t, r.WorkExperience)
	assert.NotNil(t, r.Certifications)
	assert.Equal(t, types.TemplateMinimal, r.SelectedTemplate)

	req := f.client.requests[0]
	assert.Equal(t, llm.TierStandard, req.Tier)
	assert.Contains(t, req.Prompt, "Ada Lovelace, mathematician")
	assert.Contains(t, req.System, "YYYY-MM")
}

func TestParseText_EntryMissingFieldsIsRejected(t *testing.T) {
	svc, _ := newService(`{"education": [{"id": "e1", "institution": "Cambridge"}]}`, "k")
	st := seededStore()
	before := st.Snapshot()

	_, err := svc.ParseText(context.Background(), st, "text", locale.English, "")

	var e *schemas.ValidationError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, before, st.Snapshot())
}

func TestParseText_EmptyText(t *testing.T) {
	svc, f := newService("{}", "k")

	_, err := svc.ParseText(context.Background(), store.New(), " \n ", locale.English, "")

	var e *InputError
	assert.ErrorAs(t, err, &e)
	assert.Empty(t, f.keys)
}

func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseDocument_DOCX(t *testing.T) {
	svc, f := newService(`{"personalInfo": {"firstName": "Ada", "lastName": "Lovelace"}}`, "k")
	st := store.New()

	_, err := svc.ParseDocument(context.Background(), st, ParseInput{
		Data:     docx(t, "Ada Lovelace", "Mathematician"),
		MimeType: ingestion.MIMEDOCX,
		FileName: "ada.docx",
		Locale:   locale.English,
	})
	require.NoError(t, err)

	assert.Equal(t, "Lovelace", st.Resume().PersonalInfo.LastName)
	assert.Contains(t, f.client.requests[0].Prompt, "Ada Lovelace\nMathematician")
}

func TestParseDocument_UnsupportedBeforeCredentialCheck(t *testing.T) {
	svc, f := newService("{}", "")

	_, err := svc.ParseDocument(context.Background(), store.New(), ParseInput{
		Data:     []byte("plain text"),
		MimeType: "text/plain",
		FileName: "cv.txt",
	})

	var e *ingestion.UnsupportedInputError
	assert.ErrorAs(t, err, &e)
	assert.Empty(t, f.keys)
}

func TestParseDocument_MissingCredential(t *testing.T) {
	svc, f := newService("{}", "")

	_, err := svc.ParseDocument(context.Background(), store.New(), ParseInput{
		Data:     docx(t, "Ada"),
		MimeType: ingestion.MIMEDOCX,
	})

	var e *MissingCredentialError
	assert.ErrorAs(t, err, &e)
	assert.Empty(t, f.keys)
}

func TestParseDocument_ExtractionFailure(t *testing.T) {
	svc, f := newService("{}", "k")
	st := seededStore()
	before := st.Snapshot()

	_, err := svc.ParseDocument(context.Background(), st, ParseInput{
		Data:     []byte("%PDF-1.7\nbroken"),
		MimeType: ingestion.MIMEPDF,
		FileName: "cv.pdf",
	})

	var collab *CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, OpExtract, collab.Op)
	var extraction *ingestion.ExtractionError
	assert.ErrorAs(t, err, &extraction)
	assert.Empty(t, f.keys)
	assert.Equal(t, before, st.Snapshot())
}
