package script

import (
	"fmt"
	"strconv"
)

// Instruction 普通指令步骤
type Instruction struct {
	Name string
	run  func(ctx *Context) Result
	skip func(ctx *Context) Result
}

// NewInstruction 创建指令
//
// 参数：
//   - run: 正常执行
//   - skip: 跳过时执行，为 nil 时执行 run 并忽略等待
func NewInstruction(name string, run, skip func(ctx *Context) Result) *Instruction {
	return &Instruction{Name: name, run: run, skip: skip}
}

func (i *Instruction) Run(ctx *Context) Result {
	return i.run(ctx)
}

func (i *Instruction) Skip(ctx *Context) Result {
	if i.skip != nil {
		return i.skip(ctx)
	}
	res := i.run(ctx)
	res.Wait = 0
	res.Repeat = false
	return res
}

// Params 指令参数（YAML 中的 params 字段）
type Params map[string]string

// String 返回字符串参数
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Require 返回必填参数
func (p Params) Require(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return "", fmt.Errorf("missing parameter %q", key)
	}
	return v, nil
}

// Float 返回浮点参数
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", key, err)
	}
	return f, nil
}

// Int 返回整数参数
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", key, err)
	}
	return n, nil
}

// Bool 返回布尔参数
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parameter %q: %w", key, err)
	}
	return b, nil
}
