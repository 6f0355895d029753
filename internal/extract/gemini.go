package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"suratapi/internal/config"
	"suratapi/internal/model"
)

// mediaPrompt instructs the model how to read an official letter document.
// The four-hour estimation rule mirrors the resolver fallback so that
// extracted and locally derived end times agree.
const mediaPrompt = `
Anda adalah asisten administrasi ahli. Tugas anda adalah menganalisis dokumen surat resmi ini dan mengekstrak informasi penting secara detail.

Instruksi Ekstraksi:
1.  **Metadata Surat**:
    - Jenis Surat: 'Masuk' atau 'Keluar'.
    - Nomor Surat, Pengirim, Penerima (Ditujukan Kepada), Tanggal Surat (YYYY-MM-DD), Perihal.

2.  **Detail Acara (Sangat Penting)**:
    - Cari tanggal dan jam mulai acara. Format ke ISO String (YYYY-MM-DDTHH:mm).
    - Cari tanggal dan jam selesai acara.
    - **ATURAN 4 JAM**: Jika jam selesai tidak tertulis secara eksplisit, ESTIMASIKAN waktu selesai adalah 4 jam setelah waktu mulai.
    - **Tempat**: Ambil nama lokasi. Jika Online/Zoom, WAJIB sertakan Link, Meeting ID, dan Passcode dalam field lokasi ini.

3.  **Ringkasan**:
    - Buat ringkasan padat yang mencakup poin-poin penting selain waktu acara (karena waktu sudah ada field khususnya).

4.  **Tags**: Berikan tag relevan.

Kembalikan respons dalam format JSON.
`

const textPromptFormat = `
Analisis teks surat berikut.
Teks: "%s"

Instruksi:
1. Ekstrak Jenis, Nomor, Pengirim, Penerima, Tanggal, Perihal.
2. Ekstrak Waktu Acara (Start/End). Jika End tidak ada, tambahkan 4 jam dari Start. Format ISO YYYY-MM-DDTHH:mm.
3. Ekstrak Tempat (Termasuk detail Zoom jika ada).
4. Buat Ringkasan dan Tags.
`

// geminiExtractor implements Extractor against the Gemini API with a
// schema-constrained JSON response.
type geminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGemini creates an Extractor backed by the Gemini API.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	m := cfg.Model
	if m == "" {
		m = "gemini-2.5-flash"
	}
	return &geminiExtractor{client: client, model: m}, nil
}

func (g *geminiExtractor) FromMedia(ctx context.Context, data []byte, mimeType string) (*model.AnalysisResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(mediaPrompt),
		}, genai.RoleUser),
	}
	return g.generate(ctx, "media", contents)
}

func (g *geminiExtractor) FromText(ctx context.Context, text string) (*model.AnalysisResult, error) {
	prompt := fmt.Sprintf(textPromptFormat, text)
	return g.generate(ctx, "text", genai.Text(prompt))
}

func (g *geminiExtractor) generate(ctx context.Context, op string, contents []*genai.Content) (*model.AnalysisResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, generateConfig())
	if err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &ServiceError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &result, nil
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		// Official letters regularly trip over-eager filters; disable
		// blocking so legitimate documents are not rejected.
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":            {Type: genai.TypeString, Enum: []string{string(model.TypeIncoming), string(model.TypeOutgoing)}},
			"referenceNumber": {Type: genai.TypeString},
			"sender":          {Type: genai.TypeString},
			"recipient":       {Type: genai.TypeString},
			"date":            {Type: genai.TypeString},
			"subject":         {Type: genai.TypeString},
			"eventStart":      {Type: genai.TypeString, Description: "ISO 8601 DateTime YYYY-MM-DDTHH:mm"},
			"eventEnd":        {Type: genai.TypeString, Description: "ISO 8601 DateTime YYYY-MM-DDTHH:mm"},
			"location":        {Type: genai.TypeString, Description: "Nama tempat atau Detail Zoom (Link, ID, Pass)"},
			"summary":         {Type: genai.TypeString},
			"tags":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"type", "referenceNumber", "sender", "recipient", "date", "subject", "summary", "tags"},
	}
}
