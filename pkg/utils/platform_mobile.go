//go:build mobile

package utils

// IsMobile 使用 -tags mobile 构建（ebitenmobile 绑定）时总是 true
func IsMobile() bool {
	return true
}
