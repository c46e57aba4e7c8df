package types

import "fmt"

// ListType 定义动作列表的运行类型
type ListType int

const (
	// ListTypePauseGameplay 运行时阻塞玩家操作（过场）
	ListTypePauseGameplay ListType = iota
	// ListTypeRunInBackground 后台运行，不影响玩家操作
	ListTypeRunInBackground
)

// String 返回列表类型的字符串表示（与 YAML 配置中的写法一致）
func (t ListType) String() string {
	switch t {
	case ListTypePauseGameplay:
		return "pauseGameplay"
	case ListTypeRunInBackground:
		return "runInBackground"
	default:
		return "unknown"
	}
}

// BlocksGameplay 返回该类型是否阻塞玩家操作
func (t ListType) BlocksGameplay() bool {
	return t == ListTypePauseGameplay
}

// ParseListType 将配置字符串解析为 ListType
// 空字符串视为 pauseGameplay（默认值）
func ParseListType(s string) (ListType, error) {
	switch s {
	case "", "pauseGameplay":
		return ListTypePauseGameplay, nil
	case "runInBackground":
		return ListTypeRunInBackground, nil
	default:
		return ListTypePauseGameplay, fmt.Errorf("unknown list type %q (must be pauseGameplay or runInBackground)", s)
	}
}
