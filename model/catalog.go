package model

import "gorm.io/gorm"

// Item types used by comments and notification enrichment.
const (
	ItemTypeComment  = "comment"
	ItemTypeDocument = "document"
	ItemTypePatch    = "patch"
	ItemTypeLink     = "link"
	ItemTypeMiscFile = "misc_file"
	ItemTypeSoftware = "software"
	ItemTypeVersion  = "version"
)

// Content types carried by watch preferences.
const (
	ContentTypeDocuments = "documents"
	ContentTypePatches   = "patches"
	ContentTypeLinks     = "links"
	ContentTypeMisc      = "misc"
)

// Catalog rows below are owned by the catalog collaborator; this service
// only reads their display names during notification enrichment.

type Software struct {
	gorm.Model
	Name string `gorm:"not null" json:"name"`
}

type Version struct {
	gorm.Model
	SoftwareID uint     `gorm:"not null;index" json:"software_id"`
	Software   Software `gorm:"foreignKey:SoftwareID" json:"software"`
	Number     string   `gorm:"not null" json:"number"`
}

type Patch struct {
	gorm.Model
	VersionID uint   `gorm:"not null;index" json:"version_id"`
	Name      string `gorm:"not null" json:"name"`
	Category  string `json:"category"`
}

type Document struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Category string `json:"category"`
}

type Link struct {
	gorm.Model
	Name string `gorm:"not null" json:"name"`
	URL  string `gorm:"not null" json:"url"`
}

type MiscFile struct {
	gorm.Model
	Name string `gorm:"not null" json:"name"`
}
