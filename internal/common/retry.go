package common

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsRetryable 判断是否可重试：超时和网络错误视为临时故障
func IsRetryable(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// WithRetry 通用重试机制，仅用于启动阶段的连接探测，
// 请求路径上的失败一律不重试
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return err
}
