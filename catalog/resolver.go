package catalog

import (
	"fmt"

	"collab-service/model"

	"gorm.io/gorm"
)

// Resolver answers display-name lookups for catalog items. One statically
// typed query per item type; unknown ids report absent instead of erroring
// so enrichment can degrade gracefully.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) ItemName(itemType string, itemID uint) (string, bool) {
	switch itemType {
	case model.ItemTypeDocument:
		doc := new(model.Document)
		if err := r.db.First(doc, itemID).Error; err != nil {
			return "", false
		}
		return doc.Name, true
	case model.ItemTypePatch:
		patch := new(model.Patch)
		if err := r.db.First(patch, itemID).Error; err != nil {
			return "", false
		}
		return patch.Name, true
	case model.ItemTypeLink:
		link := new(model.Link)
		if err := r.db.First(link, itemID).Error; err != nil {
			return "", false
		}
		return link.Name, true
	case model.ItemTypeMiscFile:
		file := new(model.MiscFile)
		if err := r.db.First(file, itemID).Error; err != nil {
			return "", false
		}
		return file.Name, true
	case model.ItemTypeSoftware:
		software := new(model.Software)
		if err := r.db.First(software, itemID).Error; err != nil {
			return "", false
		}
		return software.Name, true
	case model.ItemTypeVersion:
		version := new(model.Version)
		if err := r.db.Preload("Software").First(version, itemID).Error; err != nil {
			return "", false
		}
		if version.Software.Name != "" {
			return fmt.Sprintf("%s %s", version.Software.Name, version.Number), true
		}
		return version.Number, true
	}
	return "", false
}
