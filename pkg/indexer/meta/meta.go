// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"encoding/json"
	"strings"
)

// HeliumKey is the object metadata key carrying the application's namespaced
// annotations as an embedded json object.
const HeliumKey = "helium"

// Fields is the fixed shape object metadata contributes to an index document.
type Fields struct {
	// SystemMeta is the namespaced annotation object minus the well-known
	// keys below. Unexpected extra fields end up here. It stays nil when the
	// namespaced object is absent.
	SystemMeta map[string]interface{} `json:"system_meta"`

	// UserMeta are the free-form user supplied annotations.
	UserMeta map[string]interface{} `json:"user_meta"`

	Comment string `json:"comment"`
	Target  string `json:"target"`

	// MetaText is the searchable concatenation of all metadata.
	MetaText string `json:"meta_text"`
}

// Transform reshapes raw object metadata for indexing. An absent namespaced
// annotation object yields zero-valued fields.
func Transform(raw map[string]interface{}) Fields {
	var helium map[string]interface{}
	if raw != nil {
		helium, _ = raw[HeliumKey].(map[string]interface{})
	}

	userMeta := map[string]interface{}{}
	var system map[string]interface{}
	var comment, target string

	if helium != nil {
		system = make(map[string]interface{}, len(helium))
		for key, value := range helium {
			switch key {
			case "user_meta":
				if um, ok := value.(map[string]interface{}); ok {
					userMeta = um
				}
			case "comment":
				comment, _ = value.(string)
			case "target":
				target, _ = value.(string)
			default:
				system[key] = value
			}
		}
	}

	parts := []string{comment, target}
	if len(system) > 0 {
		if data, err := json.Marshal(system); err == nil {
			parts = append(parts, string(data))
		}
	}
	if len(userMeta) > 0 {
		if data, err := json.Marshal(userMeta); err == nil {
			parts = append(parts, string(data))
		}
	}

	return Fields{
		SystemMeta: system,
		UserMeta:   userMeta,
		Comment:    comment,
		Target:     target,
		MetaText:   strings.Join(parts, " "),
	}
}
