// Package app 提供演示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/actionlist/pkg/game"
	"github.com/decker502/actionlist/pkg/scenes"
	"github.com/decker502/actionlist/pkg/types"
	"github.com/decker502/actionlist/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 640
	ScreenHeight = 480
)

// QuickSaveSlot F5/F9 使用的槽位
const QuickSaveSlot = "quick"

// SoundConfigPath 音效资源配置
const SoundConfigPath = "data/audio/sounds.yaml"

// statusFrames 状态消息显示的帧数
const statusFrames = 120

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// AppName gdata 存储使用的应用名
	AppName string
	// Scene 启动时加载的场景名称
	Scene string
	// LoadSlot 非空时从该槽位读档，而不是从头进入场景
	LoadSlot string
	// Autosave 为 false 时关闭自动存档（覆盖已保存的设置）
	Autosave bool
}

// command 一帧内的玩家指令
type command int

const (
	cmdSkipCutscene command = iota
	cmdTogglePause
	cmdQuickSave
	cmdQuickLoad
	cmdToggleFullscreen
)

// App 是演示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	state        *game.GameState
	runtime      *scenes.Runtime
	sceneManager *game.SceneManager
	verbose      bool

	status                   string
	statusTimer              int
	lastMode                 types.GameMode
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.AppName == "" {
		cfg.AppName = game.DefaultAppName
	}
	gs := game.InitGameState(cfg.AppName)
	if !cfg.Autosave {
		gs.GetSettingsManager().Override(func(s *game.GameSettings) { s.Cutscene.Autosave = false })
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)
	resourceManager := game.NewResourceManager(audioContext)
	if err := resourceManager.LoadResourceConfig(SoundConfigPath); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}
	gs.SetAudioManager(game.NewAudioManager(resourceManager, gs.GetSettingsManager()))
	log.Printf("[App] AudioManager initialized")

	a := newApp(gs, cfg.Verbose)

	if cfg.LoadSlot != "" {
		if err := gs.LoadGame(cfg.LoadSlot, a.sceneManager.RestoreScene); err != nil {
			return nil, fmt.Errorf("读档失败: %w", err)
		}
		log.Printf("[App] Restored slot %s", cfg.LoadSlot)
	} else if err := a.sceneManager.LoadScene(cfg.Scene); err != nil {
		return nil, fmt.Errorf("场景加载失败: %w", err)
	}

	if gs.GetSettingsManager().GetSettings().Display.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// newApp 组装运行时与场景管理器（不初始化音频，测试也使用它）
func newApp(gs *game.GameState, verbose bool) *App {
	rt := scenes.NewRuntime(gs)
	sceneManager := game.NewSceneManager(gs)
	sceneManager.SetSceneFactory(rt.Factory())

	a := &App{
		state:        gs,
		runtime:      rt,
		sceneManager: sceneManager,
		verbose:      verbose,
		lastMode:     gs.Lists().Mode(),
	}
	gs.Lists().OnModeChanged(func(old, new types.GameMode) {
		a.lastMode = new
	})
	return a
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.shutdown()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	for _, cmd := range readCommands() {
		a.execute(cmd)
	}
	for i, key := range optionKeys {
		if inpututil.IsKeyJustPressed(key) {
			a.state.ChooseOption(i)
		}
	}
	if tapped, x, y := utils.JustTapped(); tapped {
		a.handleTap(x, y)
	}

	a.tick(1.0 / 60.0)
	return nil
}

// optionKeys 数字键 1-9 选择对话选项
var optionKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// readCommands 读取本帧按下的功能键
func readCommands() []command {
	var cmds []command
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		cmds = append(cmds, cmdSkipCutscene)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		cmds = append(cmds, cmdTogglePause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		cmds = append(cmds, cmdQuickSave)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		cmds = append(cmds, cmdQuickLoad)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		cmds = append(cmds, cmdToggleFullscreen)
	}
	return cmds
}

// musicPaused 暂停菜单打开时暂停音乐
// 允许暂停菜单交互的过场仍在播放时，时间不冻结，音乐也继续
func (a *App) musicPaused() bool {
	return a.state.IsPauseMenuOpen() && !a.state.Lists().IsGameplayBlockedAndUnfrozen()
}

// execute 执行一条玩家指令
func (a *App) execute(cmd command) {
	lists := a.state.Lists()
	switch cmd {
	case cmdSkipCutscene:
		if lists.IsInSkippableCutscene() {
			lists.EndCutscene()
			a.showStatus("Cutscene skipped")
		}
	case cmdTogglePause:
		a.state.TogglePauseMenu()
		if am := a.state.GetAudioManager(); am != nil {
			if a.musicPaused() {
				am.PauseMusic()
			} else {
				am.ResumeMusic()
			}
		}
	case cmdQuickSave:
		if err := a.state.SaveGame(QuickSaveSlot); err != nil {
			log.Printf("[App] Quick save failed: %v", err)
			a.showStatus("Save failed")
			return
		}
		a.showStatus("Saved")
	case cmdQuickLoad:
		if err := a.state.LoadGame(QuickSaveSlot, a.sceneManager.RestoreScene); err != nil {
			log.Printf("[App] Quick load failed: %v", err)
			a.showStatus("Load failed")
			return
		}
		a.showStatus("Loaded")
	case cmdToggleFullscreen:
		a.toggleFullscreen()
	}
}

// toggleFullscreen F11 切换全屏，并记录到设置
func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		// 退出全屏
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	}
	if sm := a.state.GetSettingsManager(); sm != nil {
		if err := sm.Update(func(s *game.GameSettings) { s.Display.Fullscreen = fullscreen }); err != nil {
			log.Printf("[App] Warning: failed to save fullscreen setting: %v", err)
		}
	}
}

// tick 推进一帧：脚本与管理器使用缩放后的时间，暂停时冻结
func (a *App) tick(deltaTime float64) {
	scaled := deltaTime * a.state.TimeScale()
	a.runtime.Update(scaled)
	a.sceneManager.Update(scaled)
	a.state.TickBlackout()
	if a.statusTimer > 0 {
		a.statusTimer--
	}
}

func (a *App) showStatus(msg string) {
	a.status = msg
	a.statusTimer = statusFrames
}

// shutdown 窗口关闭：先保存，再终止会话中的所有动作列表
func (a *App) shutdown() {
	a.saveOnExit()
	game.KillAll()
}

// saveOnExit 窗口关闭时让当前场景保存状态
func (a *App) saveOnExit() {
	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !s.SaveOnExit() {
			log.Printf("[App] Warning: save on exit failed")
		}
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	if a.state.IsBlackedOut() {
		screen.Fill(color.Black)
		return
	}
	screen.Fill(color.RGBA{R: 24, G: 28, B: 40, A: 255})
	a.sceneManager.Draw(screen)
	a.drawChoices(screen)
	a.drawPauseButton(screen)

	if a.state.IsPauseMenuOpen() {
		label := "PAUSED  (P to resume)"
		if !a.musicPaused() {
			label = "MENU  (P to close)"
		}
		ebitenutil.DebugPrintAt(screen, label, ScreenWidth/2-64, ScreenHeight/2)
	}
	if a.statusTimer > 0 {
		ebitenutil.DebugPrintAt(screen, a.status, 8, ScreenHeight-40)
	}
	if a.verbose {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  mode %v", ebiten.ActualTPS(), a.lastMode), 8, ScreenHeight-20)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
