// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package baseline suppresses no-op edits. When an edit form opens, a
// normalized snapshot of its fields is captured; on submit the same
// normalization is applied to the candidate and the two are compared
// field by field. An unchanged form is rejected locally, so closing an
// edit dialog without touching anything never produces a network
// write or a spurious "updated" notification.
//
// Creation flows have no baseline; every create is a change.
package baseline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NoChangesMessage is shown when a submit is rejected because the
// candidate matches the baseline.
const NoChangesMessage = "Make a change before saving."

// enumFields are compared case-insensitively, matching the loose
// casing the status and priority selectors can produce.
var enumFields = map[string]bool{
	"status":   true,
	"priority": true,
}

// Snapshot is a normalized view of a form's fields: strings trimmed,
// enum values lower-cased, booleans and numbers rendered to their
// canonical text, and nil, absent, and empty string all collapsed to
// the empty value.
type Snapshot map[string]string

// Capture normalizes a field map into a Snapshot. Values may be
// strings, booleans, integers, *time.Time, or nil; anything else is
// rendered with its default formatting.
func Capture(fields map[string]any) Snapshot {
	snapshot := make(Snapshot, len(fields))
	for key, value := range fields {
		snapshot[key] = normalize(key, value)
	}
	return snapshot
}

func normalize(key string, value any) string {
	var text string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		text = strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		text = strings.TrimSpace(*v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case *time.Time:
		if v == nil {
			return ""
		}
		text = v.UTC().Format(time.RFC3339)
	case time.Time:
		text = v.UTC().Format(time.RFC3339)
	default:
		text = strings.TrimSpace(fmt.Sprint(v))
	}
	if enumFields[key] {
		text = strings.ToLower(text)
	}
	return text
}

// Changed reports whether the candidate fields differ from the
// baseline after normalization. The comparison walks the union of both
// key sets, so a field that appears on only one side still counts when
// its normalized value is non-empty.
func (s Snapshot) Changed(candidate map[string]any) bool {
	return len(s.Diff(candidate)) > 0
}

// Diff returns the sorted names of fields whose normalized values
// differ between the baseline and the candidate.
func (s Snapshot) Diff(candidate map[string]any) []string {
	normalized := Capture(candidate)
	var changed []string
	for key, before := range s {
		if normalized[key] != before {
			changed = append(changed, key)
		}
	}
	for key, after := range normalized {
		if _, ok := s[key]; !ok && after != "" {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}
