// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"reflect"
	"testing"
	"time"
)

func TestUnchangedAfterNormalization(t *testing.T) {
	tests := []struct {
		name      string
		baseline  map[string]any
		candidate map[string]any
	}{
		{
			"identical fields",
			map[string]any{"title": "Ship v2", "priority": "high"},
			map[string]any{"title": "Ship v2", "priority": "high"},
		},
		{
			"surrounding whitespace only",
			map[string]any{"title": "Ship v2", "description": "notes"},
			map[string]any{"title": "  Ship v2  ", "description": "notes\n"},
		},
		{
			"null versus empty string",
			map[string]any{"title": "Ship v2", "due_date": nil},
			map[string]any{"title": "Ship v2", "due_date": ""},
		},
		{
			"enum casing",
			map[string]any{"status": "in_progress", "priority": "Medium"},
			map[string]any{"status": "In_Progress", "priority": "medium"},
		},
		{
			"absent versus empty",
			map[string]any{"title": "Ship v2"},
			map[string]any{"title": "Ship v2", "tags": ""},
		},
		{
			"whitespace-only field equals absent",
			map[string]any{"title": "Ship v2", "description": "   "},
			map[string]any{"title": "Ship v2"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			snap := Capture(test.baseline)
			if snap.Changed(test.candidate) {
				t.Errorf("Changed = true, diff %v; want no change", snap.Diff(test.candidate))
			}
		})
	}
}

func TestChanged(t *testing.T) {
	tests := []struct {
		name      string
		baseline  map[string]any
		candidate map[string]any
		wantDiff  []string
	}{
		{
			"title edited",
			map[string]any{"title": "Ship v2", "priority": "high"},
			map[string]any{"title": "Ship v3", "priority": "high"},
			[]string{"title"},
		},
		{
			"field cleared",
			map[string]any{"title": "Ship v2", "description": "notes"},
			map[string]any{"title": "Ship v2", "description": ""},
			[]string{"description"},
		},
		{
			"new field set",
			map[string]any{"title": "Ship v2"},
			map[string]any{"title": "Ship v2", "tags": "release"},
			[]string{"tags"},
		},
		{
			"completion toggled",
			map[string]any{"title": "Ship v2", "completed": false},
			map[string]any{"title": "Ship v2", "completed": true},
			[]string{"completed"},
		},
		{
			"several fields at once",
			map[string]any{"title": "a", "status": "to_do", "priority": "low"},
			map[string]any{"title": "b", "status": "done", "priority": "low"},
			[]string{"status", "title"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			snap := Capture(test.baseline)
			if !snap.Changed(test.candidate) {
				t.Fatal("Changed = false, want true")
			}
			if got := snap.Diff(test.candidate); !reflect.DeepEqual(got, test.wantDiff) {
				t.Errorf("Diff = %v, want %v", got, test.wantDiff)
			}
		})
	}
}

func TestCaptureDates(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	snap := Capture(map[string]any{"due_date": &due})
	if snap.Changed(map[string]any{"due_date": "2026-04-01T00:00:00Z"}) {
		t.Error("pointer date and its RFC 3339 text should compare equal")
	}
	var unset *time.Time
	snap = Capture(map[string]any{"due_date": unset})
	if snap.Changed(map[string]any{"due_date": nil}) {
		t.Error("nil *time.Time should equal nil")
	}
}
