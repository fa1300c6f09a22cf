package models

// UploadedDocument is returned by the media upload endpoint and attached to
// verification requests as a Document.
type UploadedDocument struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
	Name     string `json:"name"`
}

func (d UploadedDocument) AsDocument() Document {
	return Document{
		"url":      d.URL,
		"publicId": d.PublicID,
		"format":   d.Format,
		"bytes":    d.Bytes,
		"name":     d.Name,
	}
}
