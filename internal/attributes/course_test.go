package attributes

import (
	"strings"
	"testing"
	"time"
)

func TestCourseSanitizeForSaving(t *testing.T) {
	course := NewCourseAttributes("  cs1101  ", "  Programming Methodology  ", "", "  NUS  ")
	course.SanitizeForSaving()

	if course.ID != "cs1101" {
		t.Errorf("ID = %q, want trimmed", course.ID)
	}
	if course.Name != "Programming Methodology" {
		t.Errorf("Name = %q, want trimmed", course.Name)
	}
	if course.Institute != "NUS" {
		t.Errorf("Institute = %q, want trimmed", course.Institute)
	}
	if course.TimeZone != "UTC" {
		t.Errorf("TimeZone = %q, want default UTC", course.TimeZone)
	}
}

func TestCourseInvalidityInfo(t *testing.T) {
	cases := []struct {
		name   string
		course *CourseAttributes
		valid  bool
	}{
		{"valid", NewCourseAttributes("cs1101", "Programming Methodology", "Asia/Singapore", "NUS"), true},
		{"valid with dots and dollars", NewCourseAttributes("a.b$c_d-e", "X", "UTC", ""), true},
		{"empty id", NewCourseAttributes("", "X", "UTC", ""), false},
		{"id with spaces", NewCourseAttributes("cs 1101", "X", "UTC", ""), false},
		{"id with slash", NewCourseAttributes("cs/1101", "X", "UTC", ""), false},
		{"id too long", NewCourseAttributes(strings.Repeat("a", 65), "X", "UTC", ""), false},
		{"empty name", NewCourseAttributes("cs1101", "", "UTC", ""), false},
		{"name too long", NewCourseAttributes("cs1101", strings.Repeat("n", 81), "UTC", ""), false},
		{"bogus timezone", NewCourseAttributes("cs1101", "X", "Mars/Olympus", ""), false},
		{"institute too long", NewCourseAttributes("cs1101", "X", "UTC", strings.Repeat("i", 129)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reasons := tc.course.InvalidityInfo()
			if tc.valid && len(reasons) > 0 {
				t.Errorf("unexpected validation failures: %v", reasons)
			}
			if !tc.valid && len(reasons) == 0 {
				t.Error("expected validation failures, got none")
			}
			if got := tc.course.IsValid(); got != tc.valid {
				t.Errorf("IsValid() = %v, want %v", got, tc.valid)
			}
		})
	}
}

func TestCourseEntityRoundTrip(t *testing.T) {
	course := NewCourseAttributes("cs1101", "Programming Methodology", "Asia/Singapore", "NUS")
	course.SanitizeForSaving()

	back := CourseAttributesOf(course.ToEntity())
	if back.ID != course.ID || back.Name != course.Name ||
		back.TimeZone != course.TimeZone || back.Institute != course.Institute {
		t.Errorf("round trip changed the course: %+v -> %+v", course, back)
	}
}

func TestCourseUpdateAppliesOnlySetFields(t *testing.T) {
	course := NewCourseAttributes("cs1101", "Programming Methodology", "UTC", "NUS")

	name := "Programming Methodology II"
	course.Update(CourseUpdateOptions{CourseID: "cs1101", Name: &name})

	if course.Name != name {
		t.Errorf("Name = %q, want %q", course.Name, name)
	}
	if course.TimeZone != "UTC" || course.Institute != "NUS" {
		t.Error("unset fields were modified by the update")
	}
}

func TestCourseIsInRecycleBin(t *testing.T) {
	course := NewCourseAttributes("cs1101", "X", "UTC", "")
	if course.IsInRecycleBin() {
		t.Error("fresh course reports itself in the recycle bin")
	}

	now := time.Now()
	course.DeletedAt = &now
	if !course.IsInRecycleBin() {
		t.Error("soft-deleted course does not report itself in the recycle bin")
	}
}

func TestCourseCopyIsIndependent(t *testing.T) {
	course := NewCourseAttributes("cs1101", "X", "UTC", "NUS")
	clone := course.Copy()
	clone.Name = "Y"

	if course.Name != "X" {
		t.Error("mutating the copy changed the original")
	}
}
