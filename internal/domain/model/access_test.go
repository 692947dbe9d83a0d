package model

import "testing"

func TestCanAccessCourse(t *testing.T) {
	t.Parallel()

	ents := []Entitlement{
		{CodeID: "c1", CourseIDs: []string{"course-a"}},
		{CodeID: "c2", CourseIDs: []string{"course-b", "course-c"}},
	}

	if !CanAccessCourse(ents, "course-a") || !CanAccessCourse(ents, "course-c") {
		t.Error("listed courses must be accessible")
	}
	if CanAccessCourse(ents, "course-z") {
		t.Error("unlisted course must not be accessible")
	}
	if CanAccessCourse(nil, "course-a") {
		t.Error("no entitlements means no access")
	}
	if !CanAccessCourse([]Entitlement{{CodeID: "g", GlobalAccess: true}}, "course-z") {
		t.Error("global entitlement must grant any course")
	}
}

func TestCanAccessLesson(t *testing.T) {
	t.Parallel()

	student := &User{ID: "u1", Roles: []string{RoleStudent}}
	entitled := &User{ID: "u2", Roles: []string{RoleStudent}, Entitlements: []Entitlement{{CodeID: "c", CourseIDs: []string{"course-a"}}}}
	admin := &User{ID: "u3", Roles: []string{RoleStudent, RoleAdmin}}

	cases := []struct {
		name        string
		user        *User
		courseID    string
		freePreview bool
		want        bool
	}{
		{"free preview for anonymous", nil, "course-a", true, true},
		{"paid lesson for anonymous", nil, "course-a", false, false},
		{"paid lesson without entitlement", student, "course-a", false, false},
		{"paid lesson with entitlement", entitled, "course-a", false, true},
		{"entitlement does not cross courses", entitled, "course-b", false, false},
		{"admin sees everything", admin, "course-b", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessLesson(tc.user, tc.courseID, tc.freePreview); got != tc.want {
				t.Errorf("CanAccessLesson = %v, want %v", got, tc.want)
			}
		})
	}
}
