package game

import (
	"errors"
	"strings"
)

var (
	// ErrNoEntrants 参赛名单为空（去掉空白和重复后）
	ErrNoEntrants = errors.New("no entrants")
	// ErrRaceRunning 比赛进行中不能重新开始
	ErrRaceRunning = errors.New("race already running")
)

// ParseNames 将输入框文本拆分为名字列表
// 分隔符为逗号、竖线和换行；去掉首尾空白，丢弃空项
func ParseNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n' || r == '\r'
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// NormalizeEntrants 整理参赛名单
//
// 去掉首尾空白和空项，按首次出现的顺序去重，最多保留 max 个
func NormalizeEntrants(names []string, max int) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// ClampRank 将目标名次钳制到 [1, entrants]，超出范围不报错
func ClampRank(rank, entrants int) int {
	if entrants < 1 {
		entrants = 1
	}
	if rank < 1 {
		return 1
	}
	if rank > entrants {
		return entrants
	}
	return rank
}
