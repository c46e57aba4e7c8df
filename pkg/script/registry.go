package script

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/actionlist/pkg/actionlist"
)

// InstructionFunc 根据参数构造指令
type InstructionFunc func(params Params) (*Instruction, error)

// Registry 指令名称到构造函数的映射
type Registry struct {
	builders map[string]InstructionFunc
}

// NewRegistry 创建包含全部内置指令的注册表
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]InstructionFunc)}
	r.Register("wait", buildWait)
	r.Register("setVariable", buildSetVariable)
	r.Register("addVariable", buildAddVariable)
	r.Register("log", buildLog)
	r.Register("playSound", buildPlaySound)
	r.Register("stopSounds", buildStopSounds)
	r.Register("pause", buildPause)
	r.Register("switchPlayer", buildSwitchPlayer)
	r.Register("endCutscene", buildEndCutscene)
	r.Register("runList", buildRunList)
	r.Register("resumeList", buildResumeList)
	r.Register("killList", buildKillList)
	r.Register("runAsset", buildRunAsset)
	r.Register("resumeAsset", buildResumeAsset)
	return r
}

// Register 注册指令，同名指令会被覆盖
func (r *Registry) Register(name string, fn InstructionFunc) {
	r.builders[name] = fn
}

// Names 返回所有指令名称（排序后）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build 构造指令
func (r *Registry) Build(name string, params Params) (*Instruction, error) {
	fn, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown instruction %q", name)
	}
	inst, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("instruction %s: %w", name, err)
	}
	return inst, nil
}

func skipNothing(*Context) Result { return Result{} }

func buildWait(params Params) (*Instruction, error) {
	seconds, err := params.Float("seconds", 1)
	if err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("seconds cannot be negative")
	}
	return NewInstruction("wait", func(*Context) Result {
		return Result{Wait: seconds}
	}, skipNothing), nil
}

func buildSetVariable(params Params) (*Instruction, error) {
	name, err := params.Require("name")
	if err != nil {
		return nil, err
	}
	value, err := params.Int("value", 0)
	if err != nil {
		return nil, err
	}
	return NewInstruction("setVariable", func(ctx *Context) Result {
		if ctx.Env != nil && ctx.Env.Variables != nil {
			ctx.Env.Variables.SetVariable(name, value)
		}
		return Result{}
	}, nil), nil
}

func buildAddVariable(params Params) (*Instruction, error) {
	name, err := params.Require("name")
	if err != nil {
		return nil, err
	}
	amount, err := params.Int("amount", 1)
	if err != nil {
		return nil, err
	}
	return NewInstruction("addVariable", func(ctx *Context) Result {
		if ctx.Env != nil && ctx.Env.Variables != nil {
			vars := ctx.Env.Variables
			vars.SetVariable(name, vars.Variable(name)+amount)
		}
		return Result{}
	}, nil), nil
}

func buildLog(params Params) (*Instruction, error) {
	message := params.String("message", "")
	return NewInstruction("log", func(ctx *Context) Result {
		log.Printf("[Script] %s: %s", ctx.Script.ID(), message)
		return Result{}
	}, nil), nil
}

func buildPlaySound(params Params) (*Instruction, error) {
	sound, err := params.Require("sound")
	if err != nil {
		return nil, err
	}
	loop, err := params.Bool("loop", false)
	if err != nil {
		return nil, err
	}
	music, err := params.Bool("music", false)
	if err != nil {
		return nil, err
	}
	play := func(ctx *Context) Result {
		if ctx.Env == nil || ctx.Env.Sounds == nil {
			return Result{}
		}
		if err := ctx.Env.Sounds.PlaySound(sound, loop, music); err != nil {
			log.Printf("[Script] Warning: failed to play sound %s: %v", sound, err)
		}
		return Result{}
	}
	// 跳过时只保留会持续存在的声音（音乐、循环音效）
	skip := func(ctx *Context) Result {
		if loop || music {
			return play(ctx)
		}
		return Result{}
	}
	return NewInstruction("playSound", play, skip), nil
}

func buildStopSounds(Params) (*Instruction, error) {
	return NewInstruction("stopSounds", func(ctx *Context) Result {
		if ctx.Env != nil && ctx.Env.Sounds != nil {
			ctx.Env.Sounds.StopNonMusicSounds()
		}
		return Result{}
	}, nil), nil
}

func buildPause(Params) (*Instruction, error) {
	return NewInstruction("pause", func(*Context) Result {
		return Result{Pause: true}
	}, skipNothing), nil
}

func buildSwitchPlayer(params Params) (*Instruction, error) {
	player, err := params.Int("player", -1)
	if err != nil {
		return nil, err
	}
	if player < 0 {
		return nil, fmt.Errorf("player must be set")
	}
	return NewInstruction("switchPlayer", func(ctx *Context) Result {
		if ctx.Env != nil && ctx.Env.Players != nil {
			ctx.Env.Players.SetActivePlayer(player)
		}
		return Result{}
	}, nil), nil
}

func buildEndCutscene(Params) (*Instruction, error) {
	return NewInstruction("endCutscene", func(ctx *Context) Result {
		if ctx.Env != nil && ctx.Env.Lists != nil {
			ctx.Env.Lists.EndCutscene()
		}
		return Result{}
	}, skipNothing), nil
}

// lookupSceneList 在当前列表所在场景中查找列表
func lookupSceneList(ctx *Context, name string) actionlist.Sequence {
	if ctx.Env == nil || ctx.Env.Scenes == nil {
		return nil
	}
	seq := ctx.Env.Scenes.LookupSequence(ctx.Script.SceneName(), name)
	if seq == nil {
		log.Printf("[Script] Warning: list %s not found in scene %q", name, ctx.Script.SceneName())
	}
	return seq
}

func buildRunList(params Params) (*Instruction, error) {
	name, err := params.Require("list")
	if err != nil {
		return nil, err
	}
	queue, err := params.Bool("skipQueue", false)
	if err != nil {
		return nil, err
	}
	return NewInstruction("runList", func(ctx *Context) Result {
		if seq := lookupSceneList(ctx, name); seq != nil {
			seq.Start(nil, queue)
		}
		return Result{}
	}, nil), nil
}

// buildResumeList 恢复暂停中的场景列表
// from 可以指定从哪个步骤（标签或索引）恢复，替换暂停时记录的恢复点
func buildResumeList(params Params) (*Instruction, error) {
	name, err := params.Require("list")
	if err != nil {
		return nil, err
	}
	from := params.String("from", "")
	return NewInstruction("resumeList", func(ctx *Context) Result {
		seq := lookupSceneList(ctx, name)
		if seq == nil || ctx.Env.Lists == nil {
			return Result{}
		}
		if s, ok := seq.(*Script); ok && from != "" {
			if index, ok := resumePoint(s.Definition(), from); ok {
				ctx.Env.Lists.Scene.AssignResumeIndices(seq, []int{index})
			}
		}
		ctx.Env.Lists.Scene.Resume(seq)
		return Result{}
	}, nil), nil
}

// resumePoint 解析恢复点，无效时记录警告
func resumePoint(def *Definition, from string) (int, bool) {
	index, ok := def.StepIndex(from)
	if !ok {
		log.Printf("[Script] Warning: list %s has no step %q to resume from", def.Name(), from)
	}
	return index, ok
}

func buildKillList(params Params) (*Instruction, error) {
	name, err := params.Require("list")
	if err != nil {
		return nil, err
	}
	return NewInstruction("killList", func(ctx *Context) Result {
		seq := lookupSceneList(ctx, name)
		if seq != nil && ctx.Env.Lists != nil {
			ctx.Env.Lists.Scene.KillList(seq)
		}
		return Result{}
	}, nil), nil
}

func buildRunAsset(params Params) (*Instruction, error) {
	name, err := params.Require("asset")
	if err != nil {
		return nil, err
	}
	queue, err := params.Bool("skipQueue", false)
	if err != nil {
		return nil, err
	}
	return NewInstruction("runAsset", func(ctx *Context) Result {
		if ctx.Env == nil || ctx.Env.Library == nil || ctx.Env.Lists == nil {
			return Result{}
		}
		def := ctx.Env.Library.LookupDefinition(name)
		if def == nil {
			log.Printf("[Script] Warning: asset list %s not found", name)
			return Result{}
		}
		ctx.Env.Lists.Assets.Run(def, queue)
		return Result{}
	}, nil), nil
}

// buildResumeAsset 恢复暂停中的资源列表，实例已销毁时由管理器重新生成
func buildResumeAsset(params Params) (*Instruction, error) {
	name, err := params.Require("asset")
	if err != nil {
		return nil, err
	}
	from := params.String("from", "")
	return NewInstruction("resumeAsset", func(ctx *Context) Result {
		if ctx.Env == nil || ctx.Env.Library == nil || ctx.Env.Lists == nil {
			return Result{}
		}
		def := ctx.Env.Library.LookupDefinition(name)
		if def == nil {
			log.Printf("[Script] Warning: asset list %s not found", name)
			return Result{}
		}
		if d, ok := def.(*Definition); ok && from != "" {
			if index, ok := resumePoint(d, from); ok {
				ctx.Env.Lists.Assets.AssignResumeIndices(def, []int{index})
			}
		}
		ctx.Env.Lists.Assets.Resume(def)
		return Result{}
	}, nil), nil
}
