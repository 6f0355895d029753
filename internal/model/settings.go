package model

// AppSettings is the user-editable configuration consumed by the intake core:
// the tag vocabulary, the custom-field name template, and the sender
// abbreviation rules. It is persisted as one whole value in the key-value
// store and replaced atomically on save.
type AppSettings struct {
	GoogleDriveFolderID string               `json:"googleDriveFolderId"`
	GoogleSheetURL      string               `json:"googleSheetUrl,omitempty"`
	AutoUploadToDrive   bool                 `json:"autoUploadToDrive"`
	Theme               string               `json:"theme"`
	PredefinedTags      []string             `json:"predefinedTags"`
	DefaultCustomFields []string             `json:"defaultCustomFields"`
	SenderAbbreviations []SenderAbbreviation `json:"senderAbbreviations"`
}

// DefaultSettings returns the settings used when nothing has been saved yet.
// Stored settings are merged over these so that fields added later still get
// their defaults.
func DefaultSettings() AppSettings {
	return AppSettings{
		GoogleDriveFolderID: "",
		GoogleSheetURL:      "",
		AutoUploadToDrive:   true,
		Theme:               "light",
		PredefinedTags:      []string{"Penting", "Segera", "Rahasia", "Undangan", "Dinas"},
		DefaultCustomFields: []string{"Anggaran", "Narahubung", "Kode Proyek"},
		SenderAbbreviations: []SenderAbbreviation{
			{Full: "Kementerian Dalam Negeri Republik Indonesia", Short: "Kemendagri"},
			{Full: "Badan Perencanaan Pembangunan Daerah", Short: "Bappeda"},
		},
	}
}
