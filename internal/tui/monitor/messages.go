package monitor

// ============================================================================
// 消息定义
// BubbleTea 基于消息驱动，所有异步操作都通过消息通知状态变更
// ============================================================================

// statusMsg carries one status reply from the session. Polled replies
// schedule the next poll; refreshes after an action do not.
type statusMsg struct {
	Data   map[string]any
	Err    error
	Polled bool
}

// statusTickMsg 触发状态轮询
type statusTickMsg struct{}

// actionMsg reports the outcome of a place, move, undo, redo or resign.
type actionMsg struct {
	Name string
	Err  error
}
