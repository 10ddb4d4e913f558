package organizer

import (
	"path/filepath"
	"strings"
)

// FolderRule maps a folder name appearing anywhere in a file's path to
// a category. Folder rules always win over extension rules: a file
// physically inside a recognized folder is classified by that folder
// regardless of its extension.
type FolderRule struct {
	Folder   string
	Category Category
}

// ExtensionRule maps a set of lower-cased extensions to a category.
type ExtensionRule struct {
	Category   Category
	Extensions []string
}

// Classifier assigns a category to a file record by ordered rule
// evaluation: folder rules first, then extension rules, then the
// "Other" fallback. It has no side effects and is deterministic for a
// given configuration.
type Classifier struct {
	folders    []FolderRule
	extensions []ExtensionRule
}

// NewClassifier builds a classifier. Rule order is table order: the
// first matching entry wins within each stage.
func NewClassifier(folders []FolderRule, extensions []ExtensionRule) *Classifier {
	exts := make([]ExtensionRule, len(extensions))
	for i, e := range extensions {
		lowered := make([]string, len(e.Extensions))
		for j, x := range e.Extensions {
			lowered[j] = strings.ToLower(x)
		}
		exts[i] = ExtensionRule{Category: e.Category, Extensions: lowered}
	}
	return &Classifier{folders: folders, extensions: exts}
}

// Classify returns the category for a record.
func (c *Classifier) Classify(record *FileRecord) Category {
	segments := strings.Split(filepath.Dir(record.Path), string(filepath.Separator))

	for _, rule := range c.folders {
		for _, seg := range segments {
			if seg == rule.Folder {
				return rule.Category
			}
		}
	}

	for _, rule := range c.extensions {
		for _, ext := range rule.Extensions {
			if record.Ext != "" && record.Ext == ext {
				return rule.Category
			}
		}
	}

	return CategoryOther
}
