package main

import (
	"flag"
	"log"

	"github.com/decker502/actionlist/pkg/app"
	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// 环境变量（以及可选的 .env 文件）提供默认值，命令行参数覆盖它们
	env, err := config.LoadAppEnv()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	verbose := flag.Bool("verbose", env.Verbose, "启用详细日志输出")
	scene := flag.String("scene", env.Scene, "启动时加载的场景名称")
	load := flag.String("load", "", "从指定槽位读档")
	appName := flag.String("app", env.AppName, "存档使用的应用名")
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:  *verbose,
		AppName:  *appName,
		Scene:    *scene,
		LoadSlot: *load,
		Autosave: env.Autosave,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth*2, app.ScreenHeight*2)
	ebiten.SetWindowTitle("Action List Demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
