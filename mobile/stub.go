//go:build !mobile

// Package mobile 的桌面端占位，ebitenmobile 入口在 mobile.go（需要 -tags mobile）
package mobile

// Dummy 让 go build ./... 在桌面端也能通过
func Dummy() {}
