package repository

// ProductSearchFilter 商品搜索条件
type ProductSearchFilter struct {
	Term     string
	Page     int
	PageSize int
}

func (f ProductSearchFilter) offset() int {
	return pageOffset(f.Page, f.PageSize)
}

// pageOffset 第 page 页之前的行数，页码小于 1 按第一页处理
func pageOffset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}
