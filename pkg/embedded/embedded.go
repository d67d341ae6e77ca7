// Package embedded 提供嵌入数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的配置。
//
// 使用前必须调用 Init() 初始化。可通过 SetOverrideDir() 指定磁盘目录，
// 目录中存在的同名文件优先于嵌入版本（方便调参时不重新编译）。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	overrideFS  fs.FS
	initialized bool
)

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// SetOverrideDir 设置磁盘覆盖目录，传空字符串取消覆盖
//
// 目录结构与 data/ 内部一致，例如 dir/race.yaml 覆盖 data/race.yaml
func SetOverrideDir(dir string) {
	if dir == "" {
		overrideFS = nil
		return
	}
	overrideFS = os.DirFS(dir)
	log.Printf("[Embedded] 使用磁盘配置目录: %s", dir)
}

// normalize 标准化路径并返回 data/ 之后的相对路径
func normalize(path string) (string, error) {
	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, dataPrefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// ReadFile 读取数据文件内容
// 路径必须以 "data/" 开头；覆盖目录中存在同名文件时优先读取覆盖版本
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}

	path, err := normalize(path)
	if err != nil {
		return nil, err
	}

	if overrideFS != nil {
		data, err := fs.ReadFile(overrideFS, strings.TrimPrefix(path, dataPrefix))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查数据文件是否存在（嵌入或覆盖目录任一处）
func Exists(path string) bool {
	_, err := ReadFile(path)
	return err == nil
}
