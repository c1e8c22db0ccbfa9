package repository

// pageOffset returns the OFFSET of a zero-based page.  ok is false when the
// page starts at or past the last matching row; callers then skip the row
// query and return the total alone.
func pageOffset(page, size, total int) (offset int, ok bool) {
	if page < 0 || size <= 0 || total <= 0 {
		return 0, false
	}
	if page >= (total+size-1)/size {
		return 0, false
	}
	return page * size, true
}
