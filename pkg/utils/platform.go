//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false
// 设置环境变量 ACTIONLIST_MOBILE_EMULATE=1 可以在桌面上模拟移动端（显示触摸操作区域）
func IsMobile() bool {
	return os.Getenv("ACTIONLIST_MOBILE_EMULATE") == "1"
}
