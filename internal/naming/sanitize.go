package naming

import "strings"

// Sanitize 转小写并去掉 [a-z0-9] 以外的所有字符，作为别名查找与队徽文件名比较的键
func Sanitize(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
