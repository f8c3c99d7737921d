package repository

import (
	"strings"

	"gorm.io/gorm"
)

// productSearchColumns 商品搜索匹配的列
var productSearchColumns = []string{"name", "description", "item_type", "material"}

// likeEscape LIKE 转义字符，三种方言都支持 ESCAPE '!'
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// containsAnyColumn 生成“任一列包含 term（不区分大小写）”的条件与参数
// term 中的 % 与 _ 按字面量匹配
func containsAnyColumn(db *gorm.DB, columns []string, term string) (string, []any) {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	op := "LOWER(%s) LIKE LOWER(?) ESCAPE '" + likeEscape + "'"
	if usesILike(db) {
		op = "%s ILIKE ? ESCAPE '" + likeEscape + "'"
	}

	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		parts = append(parts, strings.Replace(op, "%s", column, 1))
		args = append(args, pattern)
	}
	return strings.Join(parts, " OR "), args
}

// usesILike postgres 用 ILIKE；mysql 与 sqlite 统一转小写比较，不依赖列排序规则
func usesILike(db *gorm.DB) bool {
	if db == nil || db.Dialector == nil {
		return false
	}
	switch strings.ToLower(db.Dialector.Name()) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}
