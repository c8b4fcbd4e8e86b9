// Package service contains the application's business logic.
package service

// PageSize is the fixed number of items per listing page.
const PageSize = 10

func pageBounds(page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return PageSize, (page - 1) * PageSize
}

func pageCount(total int64) int {
	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	return pages
}
