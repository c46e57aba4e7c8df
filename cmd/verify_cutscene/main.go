package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/decker502/actionlist/pkg/game"
	"github.com/decker502/actionlist/pkg/scenes"
	"github.com/decker502/actionlist/pkg/types"
)

const tickSeconds = 1.0 / 60

var (
	// 命令行参数
	sceneName = flag.String("scene", "prologue", "要验证的场景名称")
	dataDir   = flag.String("data", ".", "包含 data/ 目录的项目根目录")
	appName   = flag.String("app", "actionlist_verify", "存档使用的应用名")
	seconds   = flag.Float64("seconds", 20, "模拟的游戏时长（秒）")
	skipAt    = flag.Float64("skip-at", -1, "在第几秒跳过过场，负数表示不跳过")
	choose    = flag.Int("choose", 0, "出现对话选项时选择的序号（从 0 开始）")
	hotspots  = flag.String("activate", "", "回到自由操作后依次触发的热键，逗号分隔，例如 K,R")
	roundTrip = flag.Bool("roundtrip", false, "结束时存档、清空并读档，检查状态是否一致")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
)

// verifier 无窗口地驱动一个场景
type verifier struct {
	state        *game.GameState
	runtime      *scenes.Runtime
	sceneManager *game.SceneManager

	elapsed  float64
	skipped  bool
	pending  []string
	failures int
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS(*dataDir))

	v, err := newVerifier()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	v.run()

	if *roundTrip {
		v.checkRoundTrip()
	}
	game.KillAll()

	if v.failures > 0 {
		fmt.Printf("\n❌ %d 项检查失败\n", v.failures)
		os.Exit(1)
	}
	fmt.Println("\n✅ 验证完成")
}

func newVerifier() (*verifier, error) {
	gs := game.InitGameState(*appName)
	rt := scenes.NewRuntime(gs)
	sm := game.NewSceneManager(gs)
	sm.SetSceneFactory(rt.Factory())

	v := &verifier{state: gs, runtime: rt, sceneManager: sm}
	if *hotspots != "" {
		for _, key := range strings.Split(*hotspots, ",") {
			if key = strings.TrimSpace(key); key != "" {
				v.pending = append(v.pending, key)
			}
		}
	}

	gs.Lists().OnModeChanged(func(old, new types.GameMode) {
		fmt.Printf("[%6.2fs] 模式 %v → %v\n", v.elapsed, old, new)
	})
	gs.OnVariableChanged(func(name string, old, new int) {
		fmt.Printf("[%6.2fs] 变量 %s: %d → %d\n", v.elapsed, name, old, new)
	})

	if err := sm.LoadScene(*sceneName); err != nil {
		return nil, err
	}
	fmt.Printf("场景 %s 已加载，当前模式 %v\n", *sceneName, gs.Lists().Mode())
	return v, nil
}

// run 以固定步长推进，按参数跳过过场、选择选项、触发热键
func (v *verifier) run() {
	lists := v.state.Lists()
	for v.elapsed < *seconds {
		if !v.skipped && *skipAt >= 0 && v.elapsed >= *skipAt && lists.IsInSkippableCutscene() {
			fmt.Printf("[%6.2fs] 跳过过场\n", v.elapsed)
			lists.EndCutscene()
			v.skipped = true
		}

		if options, ok := v.state.ActiveChoices(); ok {
			fmt.Printf("[%6.2fs] 对话选项 %q，选择 %d\n", v.elapsed, options, *choose)
			if !v.state.ChooseOption(*choose) {
				v.fail("选项 %d 无效", *choose)
				return
			}
		}

		if len(v.pending) > 0 && lists.Mode() == types.GameModeFree {
			key := v.pending[0]
			v.pending = v.pending[1:]
			if scene := v.runtime.CurrentScene(); scene != nil && scene.Activate(key) {
				fmt.Printf("[%6.2fs] 热键 %s\n", v.elapsed, key)
			} else {
				v.fail("热键 %s 没有运行任何列表", key)
			}
		}

		v.runtime.Update(tickSeconds * v.state.TimeScale())
		v.state.TickBlackout()
		v.elapsed += tickSeconds
	}

	if len(v.pending) > 0 {
		v.fail("还有 %d 个热键没有触发（一直没有回到自由操作）", len(v.pending))
	}
	v.report()
}

// report 输出最终状态
func (v *verifier) report() {
	gs := v.state
	fmt.Printf("\n=== %.1fs 后的状态 ===\n", v.elapsed)
	fmt.Printf("模式: %v  角色: %d\n", gs.Lists().Mode(), gs.ActivePlayerID())
	for _, name := range gs.VariableNames() {
		fmt.Printf("  %s = %d\n", name, gs.Variable(name))
	}
	for _, rec := range gs.Lists().Scene.Records() {
		fmt.Printf("  场景列表 %-14s running=%v paused=%v skipQueue=%v\n",
			rec.Subject().ID(), rec.IsRunning(), rec.IsPaused(), rec.InSkipQueue())
	}
	for _, rec := range gs.Lists().Assets.Records() {
		name := "?"
		if def := rec.Definition(); def != nil {
			name = def.Name()
		}
		fmt.Printf("  资源列表 %-14s running=%v paused=%v\n", name, rec.IsRunning(), rec.IsPaused())
	}
}

// checkRoundTrip 存档后清空会话再读档，比较变量与列表状态
func (v *verifier) checkRoundTrip() {
	const slot = "verify"
	gs := v.state

	before := make(map[string]int)
	for _, name := range gs.VariableNames() {
		before[name] = gs.Variable(name)
	}
	gs.Lists().PurgeLists()
	beforeLists := len(gs.Lists().Scene.Records())

	if err := gs.SaveGame(slot); err != nil {
		v.fail("存档失败: %v", err)
		return
	}
	gs.ResetSession()
	if err := gs.LoadGame(slot, v.sceneManager.RestoreScene); err != nil {
		v.fail("读档失败: %v", err)
		return
	}

	fmt.Println("\n=== 读档后 ===")
	for _, name := range gs.VariableNames() {
		if got, want := gs.Variable(name), before[name]; got != want {
			v.fail("变量 %s: 读档后 %d，存档前 %d", name, got, want)
		}
	}
	if after := len(gs.Lists().Scene.Records()); after != beforeLists {
		v.fail("场景列表记录数: 读档后 %d，存档前 %d", after, beforeLists)
	}
	v.report()

	if err := gs.GetSaveManager().DeleteSlot(slot); err != nil {
		log.Printf("[verify] cleanup failed: %v", err)
	}
}

func (v *verifier) fail(format string, args ...any) {
	v.failures++
	fmt.Printf("❌ "+format+"\n", args...)
}
