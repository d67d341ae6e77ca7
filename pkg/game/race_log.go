package game

import "fmt"

// RaceLog 面向玩家的比赛日志（显示在控制面板中，最新的在前）
// 与调试日志 log.Printf 分开
type RaceLog struct {
	lines    []string
	capacity int
}

// NewRaceLog 创建日志，capacity <= 0 表示不限制条数
func NewRaceLog(capacity int) *RaceLog {
	return &RaceLog{capacity: capacity}
}

// Add 追加一条日志
func (l *RaceLog) Add(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if l.capacity > 0 && len(l.lines) > l.capacity {
		l.lines = l.lines[len(l.lines)-l.capacity:]
	}
}

// Recent 返回最近 n 条，最新的在前；n <= 0 返回全部
func (l *RaceLog) Recent(n int) []string {
	if n <= 0 || n > len(l.lines) {
		n = len(l.lines)
	}
	out := make([]string, 0, n)
	for i := len(l.lines) - 1; i >= len(l.lines)-n; i-- {
		out = append(out, l.lines[i])
	}
	return out
}

// Len 日志条数
func (l *RaceLog) Len() int {
	return len(l.lines)
}

// Clear 清空日志
func (l *RaceLog) Clear() {
	l.lines = nil
}
