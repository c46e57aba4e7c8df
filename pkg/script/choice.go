package script

import (
	"log"

	"github.com/decker502/actionlist/pkg/actionlist"
)

// ChoiceOption 对话选项
type ChoiceOption struct {
	Text string
	Next Continuation
}

// Choice 对话选项步骤，实现 actionlist.ConversationStep
//
// 普通模式：显示选项并逐帧等待玩家选择。
// 重定向模式（Override）：挂起对话重定向并结束列表，列表结束时由管理器打开选项，
// 玩家选择后管理器从本步骤以该选项重新运行列表。
//
// 同一资源定义的多个实例共享步骤对象，因此选项状态也是共享的。
type Choice struct {
	Options       []ChoiceOption
	DefaultOption int
	Override      bool

	env            *Env
	overrideOption int
	waiting        bool
}

// NewChoice 创建对话选项步骤
func NewChoice(options []ChoiceOption, defaultOption int, override bool, env *Env) *Choice {
	return &Choice{
		Options:        options,
		DefaultOption:  defaultOption,
		Override:       override,
		env:            env,
		overrideOption: actionlist.NoOverrideOption,
	}
}

func (c *Choice) texts() []string {
	texts := make([]string, len(c.Options))
	for i, opt := range c.Options {
		texts[i] = opt.Text
	}
	return texts
}

// pick 返回选项的去向，越界时使用默认选项
func (c *Choice) pick(index int) Result {
	if index < 0 || index >= len(c.Options) {
		log.Printf("[Choice] Warning: option %d out of range, using default %d", index, c.DefaultOption)
		index = c.DefaultOption
	}
	if index < 0 || index >= len(c.Options) {
		return Result{Next: Next}
	}
	return Result{Next: c.Options[index].Next}
}

// takeOverride 取出并清除重定向选项
func (c *Choice) takeOverride() (int, bool) {
	if c.overrideOption == actionlist.NoOverrideOption {
		return 0, false
	}
	index := c.overrideOption
	c.overrideOption = actionlist.NoOverrideOption
	return index, true
}

func (c *Choice) Run(ctx *Context) Result {
	if index, ok := c.takeOverride(); ok {
		return c.pick(index)
	}

	env := ctx.Env
	if c.Override && env != nil && env.Lists != nil {
		if env.Lists.SetConversationPoint(c) > 0 {
			return Result{Next: Stop}
		}
	}

	if env == nil || env.Dialogue == nil {
		return c.pick(c.DefaultOption)
	}

	if !c.waiting {
		c.waiting = true
		env.Dialogue.ShowChoices(c, c.texts(), false)
		return Result{Repeat: true}
	}
	if index, ok := env.Dialogue.Selection(c); ok {
		c.waiting = false
		env.Dialogue.CloseChoices(c)
		return c.pick(index)
	}
	return Result{Repeat: true}
}

func (c *Choice) Skip(ctx *Context) Result {
	if index, ok := c.takeOverride(); ok {
		return c.pick(index)
	}
	if c.waiting {
		c.waiting = false
		if ctx.Env != nil && ctx.Env.Dialogue != nil {
			ctx.Env.Dialogue.CloseChoices(c)
		}
	}
	return c.pick(c.DefaultOption)
}

// OpenChoices 列表结束时由管理器调用，打开重定向的选项
func (c *Choice) OpenChoices() {
	if c.env == nil || c.env.Dialogue == nil {
		log.Printf("[Choice] Warning: no dialogue attached, cannot open choices")
		return
	}
	c.env.Dialogue.ShowChoices(c, c.texts(), true)
}

// SetOverrideOption 设置重新进入本步骤时直接使用的选项
func (c *Choice) SetOverrideOption(index int) {
	c.overrideOption = index
}
