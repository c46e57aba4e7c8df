// Package utils 提供平台与输入相关的辅助函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// JustTapped 本帧是否刚发生触摸或鼠标左键点击
// 同时有触摸和鼠标时以触摸为准
//
// 返回：
//   - bool: 是否发生
//   - int, int: 逻辑屏幕坐标
func JustTapped() (bool, int, int) {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return true, x, y
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// IsTouchDevice 当前是否有触摸点（用于切换提示文字）
func IsTouchDevice() bool {
	return IsMobile() || len(ebiten.AppendTouchIDs(nil)) > 0
}

// Rect 屏幕上的矩形区域
type Rect struct {
	X, Y, W, H int
}

// Contains 点是否落在区域内（包含左上边界，不包含右下边界）
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// LineAt 计算 y 落在文字列表的第几行
//
// 参数：
//   - top: 第一行的顶部
//   - lineHeight: 行高
//   - count: 行数
//
// 返回：
//   - int: 行号（从 0 开始）
//   - bool: y 是否落在列表范围内
func LineAt(y, top, lineHeight, count int) (int, bool) {
	if lineHeight <= 0 || y < top {
		return 0, false
	}
	line := (y - top) / lineHeight
	if line >= count {
		return 0, false
	}
	return line, true
}
