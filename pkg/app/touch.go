package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/actionlist/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 触摸操作布局
const (
	lineHeight    = 16
	choicePanelX  = 8
	choicePanelY  = ScreenHeight - 200 // 标题行，选项从下一行开始
	pauseZoneSize = 48
)

// pauseZone 右上角的暂停按钮区域
var pauseZone = utils.Rect{X: ScreenWidth - pauseZoneSize, Y: 0, W: pauseZoneSize, H: pauseZoneSize}

// handleTap 处理一次点击或触摸
//
// 顺序：
//   - 右上角区域切换暂停
//   - 有对话选项时，点中的选项行被选择
//   - 可跳过的过场中，点击屏幕其它位置跳过过场
func (a *App) handleTap(x, y int) {
	if pauseZone.Contains(x, y) {
		a.execute(cmdTogglePause)
		return
	}
	if options, ok := a.state.ActiveChoices(); ok {
		if i, hit := utils.LineAt(y, choicePanelY+lineHeight, lineHeight, len(options)); hit {
			a.state.ChooseOption(i)
		}
		return
	}
	if a.state.Lists().IsInSkippableCutscene() {
		a.execute(cmdSkipCutscene)
	}
}

// drawChoices 在固定位置绘制对话选项，触摸时按行选择
func (a *App) drawChoices(screen *ebiten.Image) {
	options, ok := a.state.ActiveChoices()
	if !ok {
		return
	}
	height := float32((len(options) + 1) * lineHeight)
	vector.DrawFilledRect(screen, 0, choicePanelY-4, ScreenWidth, height+8, color.RGBA{A: 160}, false)

	hint := "Choose (1-9):"
	if utils.IsTouchDevice() {
		hint = "Tap to choose:"
	}
	ebitenutil.DebugPrintAt(screen, hint, choicePanelX, choicePanelY)
	for i, opt := range options {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  %d) %s", i+1, opt), choicePanelX, choicePanelY+(i+1)*lineHeight)
	}
}

// drawPauseButton 触摸设备上显示暂停按钮
func (a *App) drawPauseButton(screen *ebiten.Image) {
	if !utils.IsTouchDevice() {
		return
	}
	label := "||"
	if a.state.IsPauseMenuOpen() {
		label = ">"
	}
	ebitenutil.DebugPrintAt(screen, label, pauseZone.X+pauseZoneSize/2-6, pauseZone.Y+pauseZoneSize/2-8)
}
