package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/actionlist/pkg/actionlist"
	"github.com/decker502/actionlist/pkg/types"
	"github.com/decker502/actionlist/pkg/utils"
	"github.com/quasilyte/gdata/v2"
)

// DefaultAppName gdata 使用的默认应用名
const DefaultAppName = "actionlist_demo"

// VariableListener 变量变化回调
type VariableListener func(name string, old, new int)

// choicePrompt 正在显示的对话选项
type choicePrompt struct {
	owner     any
	options   []string
	redirect  bool // 选择结果交给 actionlist.Manager.OverrideConversation
	selection int
	selected  bool
}

// GameState 存储全局游戏状态
// 这是一个单例，用于管理跨场景和跨系统的全局状态数据
//
// 它同时是动作列表管理器的外部系统：菜单状态、变量备份、角色切换、黑屏与时间缩放，
// 以及步骤使用的变量读写和对话选项界面。
type GameState struct {
	SceneName string         // 当前场景
	PlayerID  int            // 当前控制的角色，types.NoPlayer 表示无
	Variables map[string]int // 全局变量

	variableBackup map[string]int
	listeners      []VariableListener

	pauseMenuOpen bool
	prompt        *choicePrompt
	timeScale     float64
	blackout      int // 剩余黑屏帧数

	lists           *actionlist.Manager
	gdataManager    *gdata.Manager   // 可为 nil（降级模式）
	settingsManager *SettingsManager // 设置管理器
	saveManager     *SaveManager     // 存档管理器
	audioManager    *AudioManager    // 音频管理器，由 App 初始化后设置
}

// 全局单例实例（这是架构规范允许的唯一全局变量）
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 使用延迟初始化模式，确保整个游戏生命周期只有一个实例
func GetGameState() *GameState {
	if globalGameState == nil {
		globalGameState = NewGameState(DefaultAppName)
	}
	return globalGameState
}

// InitGameState 使用指定的应用名重新创建全局单例（启动时调用一次）
func InitGameState(appName string) *GameState {
	globalGameState = NewGameState(appName)
	return globalGameState
}

// KillAll 以隔离方式终止全局管理器中的所有动作列表（会话结束时调用）
func KillAll() {
	GetGameState().Lists().KillAllLists()
}

// NewGameState 创建游戏状态并初始化持久化存储
// gdata 初始化失败时以降级模式运行（设置不持久化，存档只保存在内存中）
func NewGameState(appName string) *GameState {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[GameState] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[GameState] Warning: failed to open gdata storage (%v), running without persistence", err)
		gdataManager = nil
	}
	return newGameState(gdataManager)
}

func newGameState(gdataManager *gdata.Manager) *GameState {
	gs := &GameState{
		PlayerID:       types.NoPlayer,
		Variables:      make(map[string]int),
		variableBackup: make(map[string]int),
		timeScale:      1,
		gdataManager:   gdataManager,
	}

	settingsManager, err := NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[GameState] Warning: settings unavailable: %v", err)
	}
	gs.settingsManager = settingsManager

	saveManager, err := NewSaveManager(gdataManager)
	if err != nil {
		log.Printf("[GameState] Warning: save storage unavailable (%v), using memory saves", err)
		saveManager, _ = NewSaveManager(nil)
	}
	saveManager.SetSnapshotSource(gs.Snapshot)
	gs.saveManager = saveManager

	gs.lists = actionlist.NewManager(gs.listEnvironment())
	return gs
}

// listEnvironment 组装动作列表管理器的外部系统，未初始化的部分保持 nil
func (gs *GameState) listEnvironment() actionlist.Environment {
	env := actionlist.Environment{
		Menus:     gs,
		Variables: gs,
		Players:   gs,
		Screen:    gs,
		Clock:     gs,
	}
	if gs.saveManager != nil {
		env.Saver = gs
	}
	if gs.settingsManager != nil {
		env.Settings = gs.settingsManager
	}
	if gs.audioManager != nil {
		env.Sounds = gs.audioManager
	}
	return env
}

// Lists 返回动作列表管理器
func (gs *GameState) Lists() *actionlist.Manager {
	return gs.lists
}

// GetGdataManager 返回 gdata 管理器（可能为 nil）
func (gs *GameState) GetGdataManager() *gdata.Manager {
	return gs.gdataManager
}

// GetSettingsManager 返回设置管理器
func (gs *GameState) GetSettingsManager() *SettingsManager {
	return gs.settingsManager
}

// GetSaveManager 返回存档管理器
func (gs *GameState) GetSaveManager() *SaveManager {
	return gs.saveManager
}

// GetAudioManager 返回音频管理器（未初始化时为 nil）
func (gs *GameState) GetAudioManager() *AudioManager {
	return gs.audioManager
}

// SetAudioManager 设置音频管理器，并让动作列表管理器可以停止音效
func (gs *GameState) SetAudioManager(am *AudioManager) {
	gs.audioManager = am
	gs.lists.SetEnvironment(gs.listEnvironment())
}

// ---- 变量 ----

// Variable 读取变量，不存在时为 0
func (gs *GameState) Variable(name string) int {
	return gs.Variables[name]
}

// SetVariable 写入变量，值变化时通知监听者
func (gs *GameState) SetVariable(name string, value int) {
	old, existed := gs.Variables[name]
	gs.Variables[name] = value
	if existed && old == value {
		return
	}
	for _, fn := range gs.listeners {
		fn(name, old, value)
	}
}

// InitVariable 仅在变量不存在时设置初始值（进入场景时使用）
func (gs *GameState) InitVariable(name string, value int) {
	if _, ok := gs.Variables[name]; !ok {
		gs.Variables[name] = value
	}
}

// OnVariableChanged 注册变量变化回调
func (gs *GameState) OnVariableChanged(fn VariableListener) {
	if fn != nil {
		gs.listeners = append(gs.listeners, fn)
	}
}

// ClearVariableListeners 清除所有变量回调（切换场景时调用）
func (gs *GameState) ClearVariableListeners() {
	gs.listeners = nil
}

// BackupVariables 实现 actionlist.VariableStore：进入或离开过场时备份变量
func (gs *GameState) BackupVariables() {
	gs.variableBackup = copyVariables(gs.Variables)
}

// VariableBackup 返回最近一次备份（副本）
func (gs *GameState) VariableBackup() map[string]int {
	return copyVariables(gs.variableBackup)
}

// VariableNames 返回所有变量名称（排序后）
func (gs *GameState) VariableNames() []string {
	names := make([]string, 0, len(gs.Variables))
	for name := range gs.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyVariables(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ---- 角色 ----

// ActivePlayerID 实现 actionlist.PlayerControl
func (gs *GameState) ActivePlayerID() int {
	return gs.PlayerID
}

// SetActivePlayer 实现 actionlist.PlayerControl
func (gs *GameState) SetActivePlayer(id int) {
	if gs.PlayerID != id {
		log.Printf("[GameState] Active player: %d → %d", gs.PlayerID, id)
	}
	gs.PlayerID = id
}

// ---- 菜单与对话 ----

// IsPauseMenuOpen 实现 actionlist.MenuState
func (gs *GameState) IsPauseMenuOpen() bool {
	return gs.pauseMenuOpen
}

// IsDialogueChoiceActive 实现 actionlist.MenuState
func (gs *GameState) IsDialogueChoiceActive() bool {
	return gs.prompt != nil
}

// SetPauseMenuOpen 打开或关闭暂停菜单，并重新计算模式
func (gs *GameState) SetPauseMenuOpen(open bool) {
	if gs.pauseMenuOpen == open {
		return
	}
	gs.pauseMenuOpen = open
	gs.lists.ResolveMode()
}

// TogglePauseMenu 切换暂停菜单
func (gs *GameState) TogglePauseMenu() {
	gs.SetPauseMenuOpen(!gs.pauseMenuOpen)
}

// ShowChoices 显示对话选项（同一时间只有一组）
func (gs *GameState) ShowChoices(owner any, options []string, redirect bool) {
	gs.prompt = &choicePrompt{
		owner:    owner,
		options:  append([]string(nil), options...),
		redirect: redirect,
	}
	gs.lists.ResolveMode()
}

// Selection 返回玩家为 owner 的选项做出的选择
func (gs *GameState) Selection(owner any) (int, bool) {
	if gs.prompt == nil || gs.prompt.owner != owner || !gs.prompt.selected {
		return 0, false
	}
	return gs.prompt.selection, true
}

// CloseChoices 关闭 owner 的对话选项
func (gs *GameState) CloseChoices(owner any) {
	if gs.prompt == nil || gs.prompt.owner != owner {
		return
	}
	gs.prompt = nil
	gs.lists.ResolveMode()
}

// ActiveChoices 返回正在显示的选项
func (gs *GameState) ActiveChoices() ([]string, bool) {
	if gs.prompt == nil {
		return nil, false
	}
	return gs.prompt.options, true
}

// ChooseOption 玩家选择了一个选项
//
// 普通选项：记录选择，由等待中的步骤在下一帧读取。
// 重定向选项：关闭选项并把选择交给挂起对话重定向的列表。
//
// 返回：
//   - bool: 选择是否被接受
func (gs *GameState) ChooseOption(index int) bool {
	prompt := gs.prompt
	if prompt == nil || index < 0 || index >= len(prompt.options) {
		return false
	}
	if !prompt.redirect {
		prompt.selection = index
		prompt.selected = true
		return true
	}

	gs.prompt = nil
	if !gs.lists.OverrideConversation(index) {
		log.Printf("[GameState] Warning: no list took conversation option %d", index)
	}
	gs.lists.ResolveMode()
	return true
}

// ---- 画面与时间 ----

// ForceBlackout 实现 actionlist.ScreenFader
func (gs *GameState) ForceBlackout() {
	gs.blackout = defaultBlackoutFrames
	if gs.settingsManager != nil {
		gs.blackout = gs.settingsManager.BlackoutFrames()
	}
}

// IsBlackedOut 当前帧是否黑屏
func (gs *GameState) IsBlackedOut() bool {
	return gs.blackout > 0
}

// TickBlackout 每帧调用一次
func (gs *GameState) TickBlackout() {
	if gs.blackout > 0 {
		gs.blackout--
	}
}

// SetTimeScale 实现 actionlist.TimeScaler
func (gs *GameState) SetTimeScale(scale float64) {
	gs.timeScale = scale
}

// TimeScale 返回游戏时间缩放
func (gs *GameState) TimeScale() float64 {
	return gs.timeScale
}

// ---- 存档 ----

// Autosave 实现 actionlist.Autosaver，设置中关闭自动存档时跳过
func (gs *GameState) Autosave() error {
	if gs.settingsManager != nil && !gs.settingsManager.GetSettings().Cutscene.Autosave {
		log.Printf("[GameState] Autosave disabled in settings, skipping")
		return nil
	}
	return gs.saveManager.Autosave()
}

// Snapshot 生成当前状态的存档内容
func (gs *GameState) Snapshot() (*SaveData, error) {
	lists, err := gs.lists.GetSaveData()
	if err != nil {
		return nil, fmt.Errorf("failed to save action lists: %w", err)
	}
	return &SaveData{
		Scene:     gs.SceneName,
		Player:    gs.PlayerID,
		Variables: copyVariables(gs.Variables),
		Lists:     lists,
	}, nil
}

// Restore 从存档内容恢复状态
//
// 参数：
//   - data: 存档内容
//   - loadScene: 切换到存档中的场景（不运行 onStart 列表），可为 nil
func (gs *GameState) Restore(data *SaveData, loadScene func(name string) error) error {
	gs.lists.KillAllLists()
	gs.prompt = nil

	gs.Variables = copyVariables(data.Variables)
	gs.variableBackup = copyVariables(data.Variables)
	gs.PlayerID = data.Player

	if loadScene != nil {
		if err := loadScene(data.Scene); err != nil {
			return fmt.Errorf("failed to load scene %s: %w", data.Scene, err)
		}
	}
	gs.SceneName = data.Scene

	if err := gs.lists.LoadData(data.Lists); err != nil {
		return fmt.Errorf("failed to restore action lists: %w", err)
	}
	log.Printf("[GameState] Restored scene %s with %d variables", data.Scene, len(data.Variables))
	return nil
}

// SaveGame 保存到槽位
func (gs *GameState) SaveGame(slot string) error {
	data, err := gs.Snapshot()
	if err != nil {
		return err
	}
	return gs.saveManager.Save(slot, data)
}

// LoadGame 从槽位读档
func (gs *GameState) LoadGame(slot string, loadScene func(name string) error) error {
	data, err := gs.saveManager.Load(slot)
	if err != nil {
		return err
	}
	return gs.Restore(data, loadScene)
}

// ResetSession 清空会话状态：终止所有列表，清除变量和对话
func (gs *GameState) ResetSession() {
	gs.lists.KillAllLists()
	gs.prompt = nil
	gs.pauseMenuOpen = false
	gs.Variables = make(map[string]int)
	gs.variableBackup = make(map[string]int)
	gs.PlayerID = types.NoPlayer
	gs.lists.ResolveMode()
}
