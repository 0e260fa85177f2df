package model

import (
	"encoding/json"
	"time"
)

// Document is one ingested legal document. Content is empty until the
// ingestion pipeline finalizes the record; the search_vector column is
// recomputed by the repository in the same statement as every content write.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:512;not null" json:"title"`
	FilePath      string    `gorm:"size:512;not null" json:"file_path"`
	Description   string    `gorm:"size:1024" json:"description"`
	Content       string    `gorm:"type:text" json:"-"`
	Cities        string    `gorm:"type:text" json:"-"` // JSON array of city names
	Keywords      string    `gorm:"type:text" json:"-"` // JSON array of keyword seeds
	ViewCount     int64     `gorm:"not null;default:0" json:"view_count"`
	DownloadCount int64     `gorm:"not null;default:0" json:"download_count"`
	FavoriteCount int64     `gorm:"not null;default:0" json:"favorite_count"`
	UploadDate    time.Time `gorm:"index" json:"upload_date"`
}

// CityList returns the parsed city tags; empty slice on parse error or no tags.
func (d *Document) CityList() []string {
	return decodeStringList(d.Cities)
}

// SetCities stores the city tags as JSON.
func (d *Document) SetCities(cities []string) {
	d.Cities = encodeStringList(cities)
}

// KeywordList returns the parsed keyword seeds.
func (d *Document) KeywordList() []string {
	return decodeStringList(d.Keywords)
}

// SetKeywords stores the keyword seeds as JSON.
func (d *Document) SetKeywords(keywords []string) {
	d.Keywords = encodeStringList(keywords)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}
