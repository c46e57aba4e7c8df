package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppEnv 可以通过环境变量覆盖的启动配置
type AppEnv struct {
	Verbose  bool   `env:"ACTIONLIST_VERBOSE" envDefault:"false"`
	Scene    string `env:"ACTIONLIST_SCENE" envDefault:"prologue"`
	AppName  string `env:"ACTIONLIST_APP_NAME" envDefault:"actionlist_demo"`
	Autosave bool   `env:"ACTIONLIST_AUTOSAVE" envDefault:"true"`
}

// LoadAppEnv 读取可选的 .env 文件后解析环境变量
//
// 参数：
//   - envFiles: .env 文件路径，不存在的文件会被忽略；为空时尝试当前目录的 .env
func LoadAppEnv(envFiles ...string) (AppEnv, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppEnv{}, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	var cfg AppEnv
	if err := env.Parse(&cfg); err != nil {
		return AppEnv{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
