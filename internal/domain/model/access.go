package model

// CanAccessCourse decides whether a set of entitlements unlocks a course.
// Pure function, no storage access: the decision is made entirely from the
// user's own entitlement list, so deactivating or deleting a code later never
// revokes access that was already granted.
func CanAccessCourse(entitlements []Entitlement, courseID string) bool {
	for _, e := range entitlements {
		if e.GlobalAccess {
			return true
		}
		for _, id := range e.CourseIDs {
			if id == courseID {
				return true
			}
		}
	}
	return false
}

// CanAccessLesson resolves lesson-level access. Granted if any of:
// the lesson is a free preview, the user is an admin, or an entitlement
// covers the owning course.
func CanAccessLesson(u *User, courseID string, freePreview bool) bool {
	if freePreview {
		return true
	}
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return CanAccessCourse(u.Entitlements, courseID)
}
