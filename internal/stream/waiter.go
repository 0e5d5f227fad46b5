package stream

import (
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// WaitFor 有界等待：阻塞直到会话进入终止状态或超时
// 返回此刻已累积的文本（可能为空，可能是部分结果）。
// 超时不会取消底层流，也不与正常完成作区分——同步调用方得到有界的
// 响应时间，同一会话上的回调消费方不受影响，流继续投递
func WaitFor(session *Session, timeout time.Duration) string {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-session.Done():
	case <-timer.C:
		logx.Debugf("Wait timed out, stream_id=%s, state=%s", session.ID(), session.State())
	}

	return session.Text()
}
