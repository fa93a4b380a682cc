package utils

// Pages returns ceil(total/perPage), 0 when total is 0.
func Pages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
