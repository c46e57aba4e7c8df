//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// //go:embed 只能嵌入包目录下的文件，构建前需要先把 data/ 复制到此目录：
//
//	cp -r ../data ./data
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/scenes data/assets data/audio
var dataFS embed.FS
