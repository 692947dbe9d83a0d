package storage

import "fmt"

// Object key layout. Keys are stable identifiers stored on lessons and
// courses; moving a file means re-keying the record.

func VideoKey(courseSlug, lessonID, filename string) string {
	return fmt.Sprintf("videos/%s/%s/%s", courseSlug, lessonID, filename)
}

func CoverKey(courseSlug, filename string) string {
	return fmt.Sprintf("covers/%s/%s", courseSlug, filename)
}

func MaterialKey(courseSlug, lessonID, filename string) string {
	return fmt.Sprintf("materials/%s/%s/%s", courseSlug, lessonID, filename)
}
