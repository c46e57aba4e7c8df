//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在 gdata 初始化前确保 Android 存储目录存在并可写
//
// gdata 在 Android 上把数据写到 /data/data/{package}/ 下，但不会创建子目录，
// 存档和设置第一次写入时会失败。
//
// 返回：
//   - error: 无法识别应用包名或目录不可写
func EnsureStorageDir() error {
	root := GetStoragePath()
	if root == "" {
		return fmt.Errorf("cannot detect android package name")
	}

	dir := filepath.Join(root, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("storage dir %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// GetStoragePath 返回应用的数据目录，无法识别包名时返回空字符串
func GetStoragePath() string {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	// cmdline 以 NUL 分隔，第一段是包名
	name, _, _ := bytes.Cut(cmdline, []byte{0})
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return ""
	}
	return filepath.Join("/data/data", string(name))
}
